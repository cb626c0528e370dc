package countdown

import (
	"fmt"
	"time"
)

// State represents the current engine mode.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateFinished State = "finished"
)

// Unit names an adjustable time field.
type Unit int

const (
	UnitHour Unit = iota
	UnitMinute
	UnitSecond
)

// Direction is the sign of an adjustment.
type Direction int

const (
	Increase Direction = iota
	Decrease
)

// Field identifies an observable value.
type Field string

const (
	FieldSeconds  Field = "seconds"
	FieldMinutes  Field = "minutes"
	FieldHours    Field = "hours"
	FieldRunning  Field = "running"
	FieldFinished Field = "finished"
)

// Snapshot is a copy of the engine's observable values.
type Snapshot struct {
	Hours    int
	Minutes  int
	Seconds  int
	Running  bool
	Finished bool
}

// State derives the engine mode from the flags.
func (snapshot Snapshot) State() State {
	switch {
	case !snapshot.Running:
		return StateIdle
	case snapshot.Finished:
		return StateFinished
	default:
		return StateRunning
	}
}

// Total returns the displayed time as a duration.
func (snapshot Snapshot) Total() time.Duration {
	seconds := snapshot.Hours*3600 + snapshot.Minutes*60 + snapshot.Seconds
	return time.Duration(seconds) * time.Second
}

// SecondsUrgent reports whether a running countdown shows five seconds or fewer.
func (snapshot Snapshot) SecondsUrgent() bool {
	return snapshot.Running && !snapshot.Finished && snapshot.Seconds <= 5
}

// String formats the displayed time as HH:MM:SS.
func (snapshot Snapshot) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", snapshot.Hours, snapshot.Minutes, snapshot.Seconds)
}

// Event is a single field change delivered to observers.
// Value is set for time fields, Flag for running and finished.
type Event struct {
	Field    Field
	Value    int
	Flag     bool
	Snapshot Snapshot
	At       time.Time
}
