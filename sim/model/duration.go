package model

import "fmt"

// TimeUnit is the unit a Duration length is expressed in.
type TimeUnit string

const (
	UnitSeconds TimeUnit = "seconds"
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
	UnitDays    TimeUnit = "days"
)

// ValidTimeUnits is the set of recognized time units. Empty means seconds.
var ValidTimeUnits = map[TimeUnit]bool{"": true, UnitSeconds: true, UnitMinutes: true, UnitHours: true, UnitDays: true}

// Duration is a length of simulated time.
type Duration struct {
	Length float64  `yaml:"length"`
	Unit   TimeUnit `yaml:"unit,omitempty"`
}

func (d Duration) String() string {
	unit := d.Unit
	if unit == "" {
		unit = UnitSeconds
	}
	return fmt.Sprintf("%g %s", d.Length, unit)
}
