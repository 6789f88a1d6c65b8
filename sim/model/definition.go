package model

import "fmt"

// Definition is the in-memory aggregate of one model: the Model identity plus
// one collection per element kind. Ids are unique within a kind only.
//
// A Definition is not safe for concurrent mutation; callers serialize
// conversion and validation against a given instance.
type Definition struct {
	Model                *Model
	Activities           *Collection[*Activity]
	Connectors           *Collection[*Connector]
	Generators           *Collection[*Generator]
	Resources            *Collection[*Resource]
	Entities             *Collection[*Entity]
	ResourceRequirements *Collection[*ResourceRequirement]
}

// NewDefinition returns an empty Definition.
func NewDefinition() *Definition {
	return &Definition{
		Activities:           NewCollection[*Activity](),
		Connectors:           NewCollection[*Connector](),
		Generators:           NewCollection[*Generator](),
		Resources:            NewCollection[*Resource](),
		Entities:             NewCollection[*Entity](),
		ResourceRequirements: NewCollection[*ResourceRequirement](),
	}
}

// Add upserts e into the collection for its kind.
func (d *Definition) Add(e Element) {
	switch v := e.(type) {
	case *Model:
		d.Model = v
	case *Activity:
		d.Activities.Add(v)
	case *Connector:
		d.Connectors.Add(v)
	case *Generator:
		d.Generators.Add(v)
	case *Resource:
		d.Resources.Add(v)
	case *Entity:
		d.Entities.Add(v)
	case *ResourceRequirement:
		d.ResourceRequirements.Add(v)
	default:
		panic(fmt.Sprintf("unhandled element type %T", e))
	}
}

// Get returns the element of the given kind and id.
func (d *Definition) Get(kind Kind, id string) (Element, bool) {
	switch kind {
	case KindModel:
		if d.Model != nil && d.Model.ID == id {
			return d.Model, true
		}
		return nil, false
	case KindActivity:
		return lookup(d.Activities, id)
	case KindConnector:
		return lookup(d.Connectors, id)
	case KindGenerator:
		return lookup(d.Generators, id)
	case KindResource:
		return lookup(d.Resources, id)
	case KindEntity:
		return lookup(d.Entities, id)
	case KindResourceRequirement:
		return lookup(d.ResourceRequirements, id)
	default:
		panic(fmt.Sprintf("unhandled element kind %v", kind))
	}
}

func lookup[T Element](c *Collection[T], id string) (Element, bool) {
	e, ok := c.Get(id)
	if !ok {
		return nil, false
	}
	return e, true
}

// Remove deletes the element of the given kind and id. Returns false if absent.
func (d *Definition) Remove(kind Kind, id string) bool {
	switch kind {
	case KindModel:
		if d.Model == nil || d.Model.ID != id {
			return false
		}
		d.Model = nil
		return true
	case KindActivity:
		return d.Activities.Remove(id)
	case KindConnector:
		return d.Connectors.Remove(id)
	case KindGenerator:
		return d.Generators.Remove(id)
	case KindResource:
		return d.Resources.Remove(id)
	case KindEntity:
		return d.Entities.Remove(id)
	case KindResourceRequirement:
		return d.ResourceRequirements.Remove(id)
	default:
		panic(fmt.Sprintf("unhandled element kind %v", kind))
	}
}

// Elements returns every element, the Model first and then each kind in
// dependency order, each kind in insertion order.
func (d *Definition) Elements() []Element {
	var out []Element
	if d.Model != nil {
		out = append(out, d.Model)
	}
	for _, r := range d.Resources.All() {
		out = append(out, r)
	}
	for _, rr := range d.ResourceRequirements.All() {
		out = append(out, rr)
	}
	for _, e := range d.Entities.All() {
		out = append(out, e)
	}
	for _, a := range d.Activities.All() {
		out = append(out, a)
	}
	for _, g := range d.Generators.All() {
		out = append(out, g)
	}
	for _, c := range d.Connectors.All() {
		out = append(out, c)
	}
	return out
}

// IsEmpty reports whether the definition holds no model and no elements.
func (d *Definition) IsEmpty() bool {
	return d.Model == nil && d.Len() == 0
}

// Len returns the number of elements across all kinds, excluding the Model.
func (d *Definition) Len() int {
	return d.Activities.Len() + d.Connectors.Len() + d.Generators.Len() +
		d.Resources.Len() + d.Entities.Len() + d.ResourceRequirements.Len()
}

// Clear removes the Model and every element.
func (d *Definition) Clear() {
	d.Model = nil
	d.Activities.Clear()
	d.Connectors.Clear()
	d.Generators.Clear()
	d.Resources.Clear()
	d.Entities.Clear()
	d.ResourceRequirements.Clear()
}
