package model

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DocumentVersion is written into every saved model document.
const DocumentVersion = "1"

// Document is the on-disk YAML form of a Definition.
type Document struct {
	Version              string                 `yaml:"version"`
	Model                *Model                 `yaml:"model,omitempty"`
	Resources            []*Resource            `yaml:"resources,omitempty"`
	ResourceRequirements []*ResourceRequirement `yaml:"resource_requirements,omitempty"`
	Entities             []*Entity              `yaml:"entities,omitempty"`
	Activities           []*Activity            `yaml:"activities,omitempty"`
	Generators           []*Generator           `yaml:"generators,omitempty"`
	Connectors           []*Connector           `yaml:"connectors,omitempty"`
}

// Document snapshots d into its serializable form.
func (d *Definition) Document() *Document {
	return &Document{
		Version:              DocumentVersion,
		Model:                d.Model,
		Resources:            d.Resources.All(),
		ResourceRequirements: d.ResourceRequirements.All(),
		Entities:             d.Entities.All(),
		Activities:           d.Activities.All(),
		Generators:           d.Generators.All(),
		Connectors:           d.Connectors.All(),
	}
}

// Definition rebuilds a Definition from the document. Later duplicates of
// an id within one kind replace earlier ones; empty entries are skipped.
func (doc *Document) Definition() *Definition {
	d := NewDefinition()
	if doc.Model != nil {
		d.Add(doc.Model)
	}
	addAll(d, doc.Resources)
	addAll(d, doc.ResourceRequirements)
	addAll(d, doc.Entities)
	addAll(d, doc.Activities)
	addAll(d, doc.Generators)
	addAll(d, doc.Connectors)
	return d
}

func addAll[E any, P interface {
	*E
	Element
}](d *Definition, items []P) {
	for _, item := range items {
		if item == nil {
			continue
		}
		d.Add(item)
	}
}

// firstEmpty returns the index of the first empty entry of items, or -1.
func firstEmpty[E any, P interface {
	*E
	Element
}](items []P) int {
	for i, item := range items {
		if item == nil {
			return i
		}
	}
	return -1
}

// checkEntries rejects list entries written as null, such as "- ~".
func (doc *Document) checkEntries() error {
	sections := []struct {
		name  string
		index int
	}{
		{"resources", firstEmpty(doc.Resources)},
		{"resource_requirements", firstEmpty(doc.ResourceRequirements)},
		{"entities", firstEmpty(doc.Entities)},
		{"activities", firstEmpty(doc.Activities)},
		{"generators", firstEmpty(doc.Generators)},
		{"connectors", firstEmpty(doc.Connectors)},
	}
	for _, sec := range sections {
		if sec.index >= 0 {
			return fmt.Errorf("%s[%d] is empty", sec.name, sec.index)
		}
	}
	return nil
}

// LoadDefinition reads a YAML model document.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model document: %w", err)
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes a YAML model document.
func ParseDefinition(data []byte) (*Definition, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing model document: %w", err)
	}
	if doc.Version != "" && doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported model document version %q", doc.Version)
	}
	if err := doc.checkEntries(); err != nil {
		return nil, fmt.Errorf("parsing model document: %w", err)
	}
	return doc.Definition(), nil
}

// WriteDefinition encodes d as a YAML model document.
func WriteDefinition(w io.Writer, d *Definition) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.Document()); err != nil {
		return fmt.Errorf("encoding model document: %w", err)
	}
	return enc.Close()
}
