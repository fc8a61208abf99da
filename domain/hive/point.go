package hive

import (
	"net/url"
	"strings"
	"time"
)

// PointType tags what kind of assertion a point carries.
type PointType string

const (
	TypeStatement PointType = "statement"
	TypeQuestion  PointType = "question"
)

// Point is a vertex of the debate graph: a single assertion or question.
type Point struct {
	Key         string       `json:"_key,omitempty"`
	ID          string       `json:"_id,omitempty"`
	Label       string       `json:"Label"`
	Links       []string     `json:"Links,omitempty"`
	Type        PointType    `json:"Type,omitempty"`
	DateCreated time.Time    `json:"DateCreated"`
	Responses   ResponseList `json:"Responses"`
}

// Dangling reports whether the point has no adjacent synapses, given the
// adjacency count supplied by the store.
func Dangling(adjacentSynapses int) bool { return adjacentSynapses == 0 }

// ValidateLinks checks that every supporting link parses as a URI reference,
// absolute or relative. Empty and whitespace-only entries are rejected.
func ValidateLinks(links []string) error {
	for _, link := range links {
		if strings.TrimSpace(link) == "" {
			return &LinkError{Link: link}
		}
		if _, err := url.Parse(link); err != nil {
			return &LinkError{Link: link, Cause: err}
		}
	}
	return nil
}

// LinkError reports a supporting link that is not a valid URI reference.
type LinkError struct {
	Link  string
	Cause error
}

func (e *LinkError) Error() string {
	return "invalid supporting link: " + e.Link
}

func (e *LinkError) Unwrap() error { return e.Cause }
