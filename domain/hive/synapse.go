package hive

import "time"

// Synapse is a directed edge asserting a connective relation between two
// points of the same namespace. At most one synapse exists per ordered
// (From, To) pair; the store enforces this with an existence check before
// insert.
type Synapse struct {
	Key         string       `json:"_key,omitempty"`
	ID          string       `json:"_id,omitempty"`
	From        string       `json:"_from"`
	To          string       `json:"_to"`
	DateCreated time.Time    `json:"DateCreated"`
	Responses   ResponseList `json:"Responses"`
}
