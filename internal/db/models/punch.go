package models

import (
	"github.com/google/uuid"
)

// Kind marks a punch as clock-in or clock-out.
type Kind string

const (
	KindIn  Kind = "in"
	KindOut Kind = "out"
)

// Status is the derived clocked-in state of the whole store.
type Status string

const (
	StatusPunchedIn  Status = "punched_in"
	StatusPunchedOut Status = "punched_out"
)

// Punch is a single immutable clock-in or clock-out event.
type Punch struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Timestamp int64     `json:"timestamp"` // milliseconds since epoch
}
