package downstream

import (
	"fmt"

	"setupdata/pkg/setupvar"
)

// Status is the outcome of handing the resolved layout to a consumer.
type Status int

const (
	StatusApplied Status = iota
	StatusNotAvailable
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusNotAvailable:
		return "not available"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result reports what a consumer did with the layout.
type Result struct {
	Consumer string
	Status   Status
	Message  string
}

// Consumer receives the ordered field list produced by a rewrite pass.
type Consumer interface {
	Name() string
	Apply(fields []setupvar.SetupVariable) Result
}

// Default file names used by the project tooling.
const (
	DefaultFactoryDefaultsFile = "HpFactoryDefaults.c"
	DefaultSDLFile             = "HpL06.sdl"
	LastUsedElementToken       = "SETUP_DATA_LAST_USED_ELEMENT"
)

// FactoryDefaults would number the entries of the factory defaults table by offset.
type FactoryDefaults struct {
	Path string
}

func (c FactoryDefaults) Name() string { return "factory-defaults" }

func (c FactoryDefaults) Apply(fields []setupvar.SetupVariable) Result {
	return Result{
		Consumer: c.Name(),
		Status:   StatusNotAvailable,
		Message:  fmt.Sprintf("annotating %s is not available yet (%d fields resolved)", c.Path, len(fields)),
	}
}

// SDLTokenUpdater would set the last-used-element token in the project descriptor.
type SDLTokenUpdater struct {
	Path  string
	Token string
}

func (c SDLTokenUpdater) Name() string { return "sdl-token" }

func (c SDLTokenUpdater) Apply(fields []setupvar.SetupVariable) Result {
	token := c.Token
	if token == "" {
		token = LastUsedElementToken
	}
	return Result{
		Consumer: c.Name(),
		Status:   StatusNotAvailable,
		Message:  fmt.Sprintf("updating %s in %s is not available yet (last used element %s)", token, c.Path, LastUsedElement(fields)),
	}
}

// LastUsedElement returns the offset of the last byte occupied by fields, or "0x0000" if
// there are none.
func LastUsedElement(fields []setupvar.SetupVariable) string {
	if len(fields) == 0 {
		return setupvar.FormatOffset(0)
	}
	last := fields[len(fields)-1]
	if last.Size == 0 {
		return setupvar.FormatOffset(last.Offset)
	}
	return setupvar.FormatOffset(last.End() - 1)
}

// ApplyAll hands fields to every consumer in order and collects their results.
func ApplyAll(consumers []Consumer, fields []setupvar.SetupVariable) []Result {
	results := make([]Result, 0, len(consumers))
	for _, c := range consumers {
		results = append(results, c.Apply(fields))
	}
	return results
}
