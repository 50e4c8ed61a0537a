package models

import "time"

/* ======================= change notification ======================= */

// ChangeEvent tells listening clients that a record kind changed and they
// should re-read. It deliberately carries no record payload; the store is the
// source of truth.
type ChangeEvent struct {
	Kind      string    `json:"kind"`   // drivers | trips | companies
	Action    string    `json:"action"` // created | updated | deleted
	Timestamp time.Time `json:"timestamp"`
}

const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)
