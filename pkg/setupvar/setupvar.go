package setupvar

import (
	"fmt"
	"strings"
)

// SetupVariable is one resolved field of the setup data blob.
type SetupVariable struct {
	Name   string `json:"name"`   // Declared identifier, including any [N] suffix
	Size   uint32 `json:"size"`   // Total bytes: base width times array length
	Offset uint32 `json:"offset"` // Byte offset from the start of the blob
}

// End returns the offset of the first byte after the field.
func (v SetupVariable) End() uint32 {
	return v.Offset + v.Size
}

// HexOffset renders the offset the way it appears in a declaration comment, e.g. "0x001A".
func (v SetupVariable) HexOffset() string {
	return FormatOffset(v.Offset)
}

// String returns "name (size) @ 0xNNNN".
func (v SetupVariable) String() string {
	return fmt.Sprintf("%s (%d) @ %s", v.Name, v.Size, v.HexOffset())
}

// FormatOffset renders an offset as four uppercase hex digits with a 0x prefix.
func FormatOffset(offset uint32) string {
	return fmt.Sprintf("0x%04X", offset)
}

// BaseName strips the array suffix and terminating semicolon from a declared name,
// e.g. "FanCurve[4];" becomes "FanCurve".
func BaseName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ";")
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
