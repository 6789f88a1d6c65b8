package validate

import (
	"github.com/inference-sim/simforge/sim/model"
)

// Connection is the projected view of one connector.
type Connection struct {
	SourceID    string
	TargetID    string
	Probability float64
}

// ActivityRelationship lists the connectors and resources attached to an activity.
type ActivityRelationship struct {
	IncomingConnectorIDs []string
	OutgoingConnectorIDs []string
	AssignedResourceIDs  []string
}

// State is a read-only projection of a Definition built fresh for every
// validation pass. It is never mutated after NewState returns.
type State struct {
	// Elements maps id to element across kinds. Ids are unique per kind only,
	// so on a cross-kind clash the later kind in Definition.Elements order wins;
	// kind checks use the per-kind sets below.
	Elements              map[string]model.Element
	Connections           map[string]Connection
	ActivityRelationships map[string]*ActivityRelationship

	ActivityIDs    map[string]bool
	GeneratorIDs   map[string]bool
	ResourceIDs    map[string]bool
	EntityIDs      map[string]bool
	ConnectorIDs   map[string]bool
	RequirementIDs map[string]bool

	def        *model.Definition
	outgoing   map[string][]string // source id → connector ids
	incoming   map[string][]string // target id → connector ids
	referenced map[string]bool     // resource ids assigned to some activity
}

// NewState projects def.
func NewState(def *model.Definition) *State {
	s := &State{
		Elements:              make(map[string]model.Element),
		Connections:           make(map[string]Connection),
		ActivityRelationships: make(map[string]*ActivityRelationship),
		ActivityIDs:           idSet(def.Activities.IDs()),
		GeneratorIDs:          idSet(def.Generators.IDs()),
		ResourceIDs:           idSet(def.Resources.IDs()),
		EntityIDs:             idSet(def.Entities.IDs()),
		ConnectorIDs:          idSet(def.Connectors.IDs()),
		RequirementIDs:        idSet(def.ResourceRequirements.IDs()),
		def:                   def,
		outgoing:              make(map[string][]string),
		incoming:              make(map[string][]string),
		referenced:            make(map[string]bool),
	}
	for _, e := range def.Elements() {
		s.Elements[e.ElementID()] = e
	}
	for _, c := range def.Connectors.All() {
		s.Connections[c.ID] = Connection{SourceID: c.SourceID, TargetID: c.TargetID, Probability: c.Probability}
		s.outgoing[c.SourceID] = append(s.outgoing[c.SourceID], c.ID)
		s.incoming[c.TargetID] = append(s.incoming[c.TargetID], c.ID)
	}
	for _, a := range def.Activities.All() {
		rel := &ActivityRelationship{
			IncomingConnectorIDs: s.incoming[a.ID],
			OutgoingConnectorIDs: s.outgoing[a.ID],
		}
		seen := make(map[string]bool)
		for _, reqID := range a.ResourceRequirementIDs {
			req, ok := def.ResourceRequirements.Get(reqID)
			if !ok {
				continue
			}
			for _, clause := range req.Clauses {
				if clause.ResourceID == "" || seen[clause.ResourceID] {
					continue
				}
				seen[clause.ResourceID] = true
				rel.AssignedResourceIDs = append(rel.AssignedResourceIDs, clause.ResourceID)
				s.referenced[clause.ResourceID] = true
			}
		}
		s.ActivityRelationships[a.ID] = rel
	}
	return s
}

// Definition returns the projected definition for ordered iteration.
// Rules must treat it as read-only.
func (s *State) Definition() *model.Definition {
	return s.def
}

// OutgoingConnectors returns the ids of connectors whose source is id.
func (s *State) OutgoingConnectors(id string) []string {
	return s.outgoing[id]
}

// IncomingConnectors returns the ids of connectors whose target is id.
func (s *State) IncomingConnectors(id string) []string {
	return s.incoming[id]
}

// IsResourceReferenced reports whether any activity is assigned the resource.
func (s *State) IsResourceReferenced(id string) bool {
	return s.referenced[id]
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
