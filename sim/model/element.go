// Package model defines the typed discrete-event simulation model: the closed
// set of element kinds, the id-keyed collections that hold them, and the
// Definition aggregate that owns one collection per kind.
//
// Collections never check cross-kind references such as connector
// endpoints; sim/validate does.
package model

// Element is implemented only by the element types in this package.
// Callers switch on the concrete type; every switch should end in a default
// branch that panics so a new kind cannot be silently ignored.
type Element interface {
	ElementID() string
	ElementName() string
	Kind() Kind
	sealed()
}

// ConnectType selects how a connector participates in routing.
type ConnectType string

const (
	ConnectProbability ConnectType = "probability"
)

// Model carries the identity of a converted model.
type Model struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Activity is a capacity-bounded node that processes entities.
type Activity struct {
	ID                     string          `yaml:"id"`
	Name                   string          `yaml:"name"`
	Capacity               int             `yaml:"capacity"`
	InputBufferCapacity    Limit           `yaml:"input_buffer_capacity"`
	OutputBufferCapacity   Limit           `yaml:"output_buffer_capacity"`
	OperationSteps         []OperationStep `yaml:"operation_steps"` // nil = missing, empty = no steps
	ResourceRequirementIDs []string        `yaml:"resource_requirement_ids,omitempty"`
}

// OperationStep is one timed step an activity performs on an entity.
type OperationStep struct {
	Name     string   `yaml:"name,omitempty"`
	Duration Duration `yaml:"duration"`
}

// Connector is a directed, probability-weighted edge between elements, by id.
type Connector struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	SourceID    string      `yaml:"source_id"`
	TargetID    string      `yaml:"target_id"`
	Probability float64     `yaml:"probability"`
	ConnectType ConnectType `yaml:"connect_type"`
}

// Generator creates entities on a schedule and releases them into ActivityKeyID.
type Generator struct {
	ID                     string    `yaml:"id"`
	Name                   string    `yaml:"name"`
	ActivityKeyID          string    `yaml:"activity_key_id,omitempty"`
	EntityType             string    `yaml:"entity_type,omitempty"`
	EntitiesPerCreation    int       `yaml:"entities_per_creation"`
	PeriodIntervalDuration *Duration `yaml:"period_interval_duration,omitempty"`
	PeriodicStartDuration  *Duration `yaml:"periodic_start_duration,omitempty"`
	MaxEntities            Limit     `yaml:"max_entities"`
	PeriodicOccurrences    Limit     `yaml:"periodic_occurrences"`
}

// Resource is a capacity-bounded object an activity can request and hold.
type Resource struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Capacity     int      `yaml:"capacity"`
	Availability *float64 `yaml:"availability,omitempty"`
}

// Entity is a type of item that flows through the model.
type Entity struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority,omitempty"`
}

// ResourceRequirement lists which resources, and how many of each, an activity needs.
type ResourceRequirement struct {
	ID      string              `yaml:"id"`
	Name    string              `yaml:"name"`
	Clauses []RequirementClause `yaml:"clauses"`
}

// RequirementClause requests Quantity units of one resource.
type RequirementClause struct {
	ResourceID string `yaml:"resource_id"`
	Quantity   int    `yaml:"quantity"`
}

func (m *Model) ElementID() string   { return m.ID }
func (m *Model) ElementName() string { return m.Name }
func (m *Model) Kind() Kind          { return KindModel }
func (m *Model) sealed()             {}

func (a *Activity) ElementID() string   { return a.ID }
func (a *Activity) ElementName() string { return a.Name }
func (a *Activity) Kind() Kind          { return KindActivity }
func (a *Activity) sealed()             {}

func (c *Connector) ElementID() string   { return c.ID }
func (c *Connector) ElementName() string { return c.Name }
func (c *Connector) Kind() Kind          { return KindConnector }
func (c *Connector) sealed()             {}

func (g *Generator) ElementID() string   { return g.ID }
func (g *Generator) ElementName() string { return g.Name }
func (g *Generator) Kind() Kind          { return KindGenerator }
func (g *Generator) sealed()             {}

func (r *Resource) ElementID() string   { return r.ID }
func (r *Resource) ElementName() string { return r.Name }
func (r *Resource) Kind() Kind          { return KindResource }
func (r *Resource) sealed()             {}

func (e *Entity) ElementID() string   { return e.ID }
func (e *Entity) ElementName() string { return e.Name }
func (e *Entity) Kind() Kind          { return KindEntity }
func (e *Entity) sealed()             {}

func (r *ResourceRequirement) ElementID() string   { return r.ID }
func (r *ResourceRequirement) ElementName() string { return r.Name }
func (r *ResourceRequirement) Kind() Kind          { return KindResourceRequirement }
func (r *ResourceRequirement) sealed()             {}

// RequirementIDFor returns the id of the single-resource requirement created
// alongside a converted resource.
func RequirementIDFor(resourceID string) string {
	return resourceID + "-requirement"
}

// NewSingleResourceRequirement binds one unit of resource r.
func NewSingleResourceRequirement(r *Resource) *ResourceRequirement {
	return &ResourceRequirement{
		ID:      RequirementIDFor(r.ID),
		Name:    r.Name + " requirement",
		Clauses: []RequirementClause{{ResourceID: r.ID, Quantity: 1}},
	}
}
