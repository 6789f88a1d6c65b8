// Package shape binds diagram shapes to typed simulation elements.
//
// A Factory instantiates one element per shape, starting from the configured
// model.Defaults and overlaying any custom attributes stored for the shape in
// the element repository (or, failing that, carried on the node itself).
// UpdateFromPlatform writes the element's attributes back to the repository.
package shape

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/simforge/sim/diagram"
	"github.com/inference-sim/simforge/sim/model"
	"github.com/inference-sim/simforge/sim/repository"
)

// Shape is a diagram shape bound to its simulation element.
type Shape interface {
	SimulationObject() model.Element
	UpdateFromPlatform() error
}

// Factory creates shapes for diagram nodes and for elements the conversion
// derives itself (connectors, resource requirements).
type Factory interface {
	Create(node diagram.Node, kind model.Kind) (Shape, error)
	Wrap(e model.Element) Shape
}

// DefaultFactory is the repository-backed Factory.
type DefaultFactory struct {
	repo     repository.Repository
	defaults model.Defaults
}

// NewFactory returns a Factory reading and writing payloads through repo.
func NewFactory(repo repository.Repository, defaults model.Defaults) *DefaultFactory {
	return &DefaultFactory{repo: repo, defaults: defaults}
}

// Create instantiates the element of the given kind for node.
// Only node-derived kinds are accepted: activity, generator, resource, entity.
func (f *DefaultFactory) Create(node diagram.Node, kind model.Kind) (Shape, error) {
	name := DefaultName(node, kind)
	var elem model.Element
	switch kind {
	case model.KindActivity:
		elem = f.defaults.NewActivity(node.ID, name)
	case model.KindGenerator:
		elem = f.defaults.NewGenerator(node.ID, name)
	case model.KindResource:
		elem = f.defaults.NewResource(node.ID, name)
	case model.KindEntity:
		elem = f.defaults.NewEntity(node.ID, name)
	case model.KindModel, model.KindConnector, model.KindResourceRequirement, model.KindUndefined:
		return nil, fmt.Errorf("node %s: kind %s cannot be created from a shape", node.ID, kind)
	default:
		panic(fmt.Sprintf("unhandled element kind %v", kind))
	}

	payload, err := f.storedPayload(node)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		if err := applyPayload(elem, payload); err != nil {
			return nil, fmt.Errorf("node %s: %w", node.ID, err)
		}
	}
	return &elementShape{elem: elem, repo: f.repo}, nil
}

// Wrap binds an already built element so it can be persisted.
func (f *DefaultFactory) Wrap(e model.Element) Shape {
	return &elementShape{elem: e, repo: f.repo}
}

// storedPayload prefers the repository copy over the payload on the node.
func (f *DefaultFactory) storedPayload(node diagram.Node) (repository.Payload, error) {
	payload, ok, err := f.repo.Get(node.ID)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", node.ID, err)
	}
	if ok {
		logrus.Debugf("node %s: applying stored payload (%d attributes)", node.ID, len(payload))
		return payload, nil
	}
	if len(node.Payload) > 0 {
		return repository.Payload(node.Payload), nil
	}
	return nil, nil
}

// DefaultName is the label of the node, or "<Kind> <id>" when it has none.
func DefaultName(node diagram.Node, kind model.Kind) string {
	if label := strings.TrimSpace(node.Label); label != "" {
		return label
	}
	k := kind.String()
	return strings.ToUpper(k[:1]) + k[1:] + " " + node.ID
}

type elementShape struct {
	elem model.Element
	repo repository.Repository
}

func (s *elementShape) SimulationObject() model.Element { return s.elem }

func (s *elementShape) UpdateFromPlatform() error {
	payload, err := encodePayload(s.elem)
	if err != nil {
		return fmt.Errorf("%s %s: %w", s.elem.Kind(), s.elem.ElementID(), err)
	}
	return s.repo.Set(s.elem.ElementID(), payload, s.elem.Kind())
}

// applyPayload overlays payload attributes onto elem. The id is never
// taken from the payload; keys the element does not know are ignored.
func applyPayload(elem model.Element, payload repository.Payload) error {
	overlay := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if k == "id" {
			continue
		}
		overlay[k] = v
	}
	data, err := yaml.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("encoding stored payload: %w", err)
	}
	if err := yaml.Unmarshal(data, elem); err != nil {
		return fmt.Errorf("applying stored payload to %s: %w", elem.Kind(), err)
	}
	return nil
}

// encodePayload flattens an element into its repository payload.
func encodePayload(elem model.Element) (repository.Payload, error) {
	data, err := yaml.Marshal(elem)
	if err != nil {
		return nil, fmt.Errorf("encoding element: %w", err)
	}
	var payload map[string]interface{}
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding element payload: %w", err)
	}
	return repository.Payload(payload), nil
}
