package manifest

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"

	"setupdata/pkg/setupvar"
)

// Manifest is the resolved field layout of one struct file, written for the tools that
// consume setup data offsets (factory defaults, project descriptor tokens).
type Manifest struct {
	Source      string                   `json:"source"`       // Struct file the layout was read from
	GeneratedAt time.Time                `json:"generated_at"` // When the layout was resolved
	Fingerprint string                   `json:"fingerprint"`  // Hash of the ordered (name, size, offset) triples
	NextOffset  uint32                   `json:"next_offset"`  // First offset after the last field
	Fields      []setupvar.SetupVariable `json:"fields"`
}

// New builds a Manifest for fields resolved from source.
func New(source string, fields []setupvar.SetupVariable, nextOffset uint32, generatedAt time.Time) *Manifest {
	cpy := make([]setupvar.SetupVariable, len(fields))
	copy(cpy, fields)
	return &Manifest{
		Source:      source,
		GeneratedAt: generatedAt,
		Fingerprint: Fingerprint(cpy),
		NextOffset:  nextOffset,
		Fields:      cpy,
	}
}

// Fingerprint hashes the ordered field triples. Any rename, resize or reorder changes it.
func Fingerprint(fields []setupvar.SetupVariable) string {
	d := xxhash.New()
	var buf [8]byte
	for _, f := range fields {
		d.WriteString(f.Name)
		d.Write([]byte{0})
		binary.LittleEndian.PutUint32(buf[0:4], f.Size)
		binary.LittleEndian.PutUint32(buf[4:8], f.Offset)
		d.Write(buf[:])
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

// Verify reports whether the stored fingerprint still matches the fields.
func (m *Manifest) Verify() bool {
	return m.Fingerprint == Fingerprint(m.Fields)
}

// Lookup finds a field by its bare identifier, ignoring array suffix and semicolon.
func (m *Manifest) Lookup(name string) (setupvar.SetupVariable, bool) {
	want := setupvar.BaseName(name)
	for _, f := range m.Fields {
		if setupvar.BaseName(f.Name) == want {
			return f, true
		}
	}
	return setupvar.SetupVariable{}, false
}

// SaveToFile serializes the Manifest to a file as JSON.
func (m *Manifest) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// LoadFromFile deserializes a Manifest from a JSON file.
func LoadFromFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var m Manifest
	dec := json.NewDecoder(f)
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
