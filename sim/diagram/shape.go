package diagram

import (
	"fmt"
	"strings"

	"github.com/inference-sim/simforge/sim/model"
)

// ShapeClass is the finite set of diagram shape classes the analyzer knows.
type ShapeClass int

const (
	ShapeUnknown ShapeClass = iota
	ShapeProcess
	ShapeTerminator
	ShapeDecision
	ShapeData
	ShapeDatabase
	ShapeEntity
)

var shapeTags = map[ShapeClass]string{
	ShapeUnknown:    "unknown",
	ShapeProcess:    "process",
	ShapeTerminator: "terminator",
	ShapeDecision:   "decision",
	ShapeData:       "data",
	ShapeDatabase:   "database",
	ShapeEntity:     "entity",
}

func (s ShapeClass) String() string {
	if tag, ok := shapeTags[s]; ok {
		return tag
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// ParseShapeClass maps a shape class tag to its ShapeClass. Matching is
// case-insensitive; an empty tag is ShapeUnknown.
func ParseShapeClass(tag string) (ShapeClass, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return ShapeUnknown, nil
	}
	for s, name := range shapeTags {
		if name == t {
			return s, nil
		}
	}
	return ShapeUnknown, fmt.Errorf("%w: %q", ErrUnknownShapeClass, tag)
}

// MarshalYAML writes the shape class tag.
func (s ShapeClass) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// ForcedKind returns the kind a shape class always converts to, regardless
// of connectivity. ok is false for shape classes that follow connectivity.
func (s ShapeClass) ForcedKind() (kind model.Kind, ok bool) {
	switch s {
	case ShapeTerminator:
		return model.KindGenerator, true
	case ShapeDatabase:
		return model.KindResource, true
	case ShapeEntity:
		return model.KindEntity, true
	case ShapeUnknown, ShapeProcess, ShapeDecision, ShapeData:
		return model.KindUndefined, false
	default:
		panic(fmt.Sprintf("unhandled shape class %d", int(s)))
	}
}
