package model

import "fmt"

// Kind identifies one of the closed set of simulation element kinds.
type Kind int

const (
	KindUndefined Kind = iota
	KindModel
	KindActivity
	KindGenerator
	KindResource
	KindEntity
	KindConnector
	KindResourceRequirement
)

var kindNames = map[Kind]string{
	KindUndefined:           "undefined",
	KindModel:               "model",
	KindActivity:            "activity",
	KindGenerator:           "generator",
	KindResource:            "resource",
	KindEntity:              "entity",
	KindConnector:           "connector",
	KindResourceRequirement: "resource-requirement",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && k != KindUndefined {
			return k, nil
		}
	}
	return KindUndefined, fmt.Errorf("unknown element kind %q", s)
}

// MarshalYAML writes the kind as its name.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}
