package layout

import (
	"errors"
	"fmt"
	"math"

	"setupdata/pkg/setupvar"
)

// FirstOffset is the offset of the first field. A one-byte header precedes the fields.
const FirstOffset uint32 = 0x0001

// ErrOffsetOverflow is returned when a field would end past the 32-bit offset range.
var ErrOffsetOverflow = errors.New("offset overflows 32 bits")

// Accumulator assigns offsets to fields in declaration order.
type Accumulator struct {
	cursor uint32
	fields []setupvar.SetupVariable
}

// NewAccumulator returns an Accumulator whose cursor starts at FirstOffset.
func NewAccumulator() *Accumulator {
	return &Accumulator{cursor: FirstOffset}
}

// Add places a field of the given size at the cursor and advances the cursor past it.
// A field that would move the cursor past math.MaxUint32 is rejected and not placed.
func (a *Accumulator) Add(name string, size uint32) (setupvar.SetupVariable, error) {
	if uint64(a.cursor)+uint64(size) > math.MaxUint32 {
		return setupvar.SetupVariable{}, fmt.Errorf("%w: %s (%d bytes) at %s",
			ErrOffsetOverflow, name, size, setupvar.FormatOffset(a.cursor))
	}
	v := setupvar.SetupVariable{Name: name, Size: size, Offset: a.cursor}
	a.fields = append(a.fields, v)
	a.cursor += size
	return v, nil
}

// Cursor returns the next free offset.
func (a *Accumulator) Cursor() uint32 {
	return a.cursor
}

// Len returns the number of fields placed so far.
func (a *Accumulator) Len() int {
	return len(a.fields)
}

// Fields returns a copy of the resolved fields in declaration order.
func (a *Accumulator) Fields() []setupvar.SetupVariable {
	cpy := make([]setupvar.SetupVariable, len(a.fields))
	copy(cpy, a.fields)
	return cpy
}

// Decl is a name and size pair waiting for an offset.
type Decl struct {
	Name string
	Size uint32
}

// Resolve folds decls through a fresh Accumulator.
func Resolve(decls []Decl) ([]setupvar.SetupVariable, error) {
	a := NewAccumulator()
	for _, d := range decls {
		if _, err := a.Add(d.Name, d.Size); err != nil {
			return nil, err
		}
	}
	return a.Fields(), nil
}
