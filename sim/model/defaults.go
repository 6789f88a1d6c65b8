package model

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults holds the attribute values given to newly converted elements
// before any stored payload is applied. The built-in defaults satisfy every
// minimum-value validation rule.
type Defaults struct {
	ActivityCapacity     int      `yaml:"activity_capacity"`
	InputBufferCapacity  Limit    `yaml:"input_buffer_capacity"`
	OutputBufferCapacity Limit    `yaml:"output_buffer_capacity"`
	StepDuration         Duration `yaml:"step_duration"`
	EntitiesPerCreation  int      `yaml:"entities_per_creation"`
	PeriodInterval       Duration `yaml:"period_interval"`
	PeriodicStart        Duration `yaml:"periodic_start"`
	MaxEntities          Limit    `yaml:"max_entities"`
	PeriodicOccurrences  Limit    `yaml:"periodic_occurrences"`
	ResourceCapacity     int      `yaml:"resource_capacity"`
}

// DefaultDefaults returns the built-in defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		ActivityCapacity:     1,
		InputBufferCapacity:  Unbounded(),
		OutputBufferCapacity: Unbounded(),
		StepDuration:         Duration{Length: 1, Unit: UnitMinutes},
		EntitiesPerCreation:  1,
		PeriodInterval:       Duration{Length: 1, Unit: UnitMinutes},
		PeriodicStart:        Duration{Length: 0, Unit: UnitMinutes},
		MaxEntities:          Unbounded(),
		PeriodicOccurrences:  Unbounded(),
		ResourceCapacity:     1,
	}
}

// LoadDefaults reads a YAML defaults file. Keys not present keep their
// built-in value; unknown keys are rejected.
func LoadDefaults(path string) (Defaults, error) {
	d := DefaultDefaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("reading defaults file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return d, fmt.Errorf("parsing defaults file: %w", err)
	}
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

// Validate checks that the defaults produce elements that pass the
// minimum-value rules.
func (d Defaults) Validate() error {
	if d.ActivityCapacity < 1 {
		return fmt.Errorf("activity_capacity must be >= 1, got %d", d.ActivityCapacity)
	}
	if !d.InputBufferCapacity.IsValid(0) {
		return fmt.Errorf("input_buffer_capacity must be >= 0 or unbounded, got %v", d.InputBufferCapacity)
	}
	if !d.OutputBufferCapacity.IsValid(0) {
		return fmt.Errorf("output_buffer_capacity must be >= 0 or unbounded, got %v", d.OutputBufferCapacity)
	}
	if d.StepDuration.Length <= 0 {
		return fmt.Errorf("step_duration.length must be positive, got %g", d.StepDuration.Length)
	}
	if d.EntitiesPerCreation < 1 {
		return fmt.Errorf("entities_per_creation must be >= 1, got %d", d.EntitiesPerCreation)
	}
	if !d.MaxEntities.IsValid(1) {
		return fmt.Errorf("max_entities must be >= 1 or unbounded, got %v", d.MaxEntities)
	}
	if d.ResourceCapacity < 1 {
		return fmt.Errorf("resource_capacity must be >= 1, got %d", d.ResourceCapacity)
	}
	units := []struct {
		field string
		unit  TimeUnit
	}{
		{"step_duration", d.StepDuration.Unit},
		{"period_interval", d.PeriodInterval.Unit},
		{"periodic_start", d.PeriodicStart.Unit},
	}
	for _, u := range units {
		if !ValidTimeUnits[u.unit] {
			return fmt.Errorf("%s: unknown time unit %q", u.field, u.unit)
		}
	}
	return nil
}

// NewActivity returns an activity carrying the default attributes.
func (d Defaults) NewActivity(id, name string) *Activity {
	return &Activity{
		ID:                   id,
		Name:                 name,
		Capacity:             d.ActivityCapacity,
		InputBufferCapacity:  d.InputBufferCapacity,
		OutputBufferCapacity: d.OutputBufferCapacity,
		OperationSteps:       []OperationStep{{Name: "Process", Duration: d.StepDuration}},
	}
}

// NewGenerator returns a generator carrying the default attributes.
func (d Defaults) NewGenerator(id, name string) *Generator {
	interval, start := d.PeriodInterval, d.PeriodicStart
	return &Generator{
		ID:                     id,
		Name:                   name,
		EntitiesPerCreation:    d.EntitiesPerCreation,
		PeriodIntervalDuration: &interval,
		PeriodicStartDuration:  &start,
		MaxEntities:            d.MaxEntities,
		PeriodicOccurrences:    d.PeriodicOccurrences,
	}
}

// NewResource returns a resource carrying the default attributes.
func (d Defaults) NewResource(id, name string) *Resource {
	return &Resource{ID: id, Name: name, Capacity: d.ResourceCapacity}
}

// NewEntity returns an entity with default priority.
func (d Defaults) NewEntity(id, name string) *Entity {
	return &Entity{ID: id, Name: name}
}
