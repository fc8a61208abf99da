// Package dto holds the read-side shapes returned to API clients. Raw
// per-user responses never leave the application layer; items carry only the
// computed consensus triple for the requesting user.
package dto

import (
	"time"

	"hivemind/domain/consensus"
	"hivemind/domain/hive"
)

// PointDTO is the client view of a point.
type PointDTO struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Links          []string `json:"links,omitempty"`
	Type           string   `json:"type,omitempty"`
	DateCreated    string   `json:"dateCreated"`
	MyResponse     int      `json:"myResponse"`
	CommonResponse float64  `json:"commonResponse"`
	Penetration    float64  `json:"penetration"`
}

// SynapseDTO is the client view of a synapse.
type SynapseDTO struct {
	ID             string  `json:"id"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	DateCreated    string  `json:"dateCreated"`
	MyResponse     int     `json:"myResponse"`
	CommonResponse float64 `json:"commonResponse"`
	Penetration    float64 `json:"penetration"`
}

// SubgraphDTO is one bounded neighborhood of the debate graph.
type SubgraphDTO struct {
	Origin   string       `json:"origin"`
	Points   []PointDTO   `json:"points"`
	Synapses []SynapseDTO `json:"synapses"`
}

// ManifestDTO is the client view of a hive manifest. The history lists are
// fixed-length day windows ending today, oldest first.
type ManifestDTO struct {
	ID                      string `json:"id"`
	Title                   string `json:"title"`
	Description             string `json:"description,omitempty"`
	DateCreated             string `json:"dateCreated"`
	AllowDanglingPoints     bool   `json:"allowDanglingPoints"`
	TotalParticipation      int    `json:"totalParticipation"`
	TotalPoints             int    `json:"totalPoints"`
	DailyParticipation      []int  `json:"dailyParticipation"`
	DailyPointCount         []int  `json:"dailyPointCount"`
	TimeOfLastParticipation string `json:"timeOfLastParticipation"`
}

// NewPointDTO computes the consensus view of a point for one user.
func NewPointDTO(p *hive.Point, userID string, totalParticipation int) PointDTO {
	agg := consensus.Compute(p.Responses, userID, totalParticipation)
	return PointDTO{
		ID:             p.ID,
		Label:          p.Label,
		Links:          p.Links,
		Type:           string(p.Type),
		DateCreated:    p.DateCreated.Format(time.RFC3339),
		MyResponse:     agg.MyResponse,
		CommonResponse: agg.CommonResponse,
		Penetration:    agg.Penetration,
	}
}

// NewSynapseDTO computes the consensus view of a synapse for one user.
func NewSynapseDTO(s *hive.Synapse, userID string, totalParticipation int) SynapseDTO {
	agg := consensus.Compute(s.Responses, userID, totalParticipation)
	return SynapseDTO{
		ID:             s.ID,
		From:           s.From,
		To:             s.To,
		DateCreated:    s.DateCreated.Format(time.RFC3339),
		MyResponse:     agg.MyResponse,
		CommonResponse: agg.CommonResponse,
		Penetration:    agg.Penetration,
	}
}

// NewManifestDTO projects a manifest onto a windowDays-day history window
// ending today.
func NewManifestDTO(m *hive.Manifest, today time.Time, windowDays int) ManifestDTO {
	return ManifestDTO{
		ID:                      m.ID,
		Title:                   m.Title,
		Description:             m.Description,
		DateCreated:             m.DateCreated.Format(time.RFC3339),
		AllowDanglingPoints:     m.AllowDanglingPoints,
		TotalParticipation:      m.TotalParticipation,
		TotalPoints:             m.TotalPoints,
		DailyParticipation:      hive.HistoryWindow(m.DailyParticipation, today, windowDays),
		DailyPointCount:         hive.HistoryWindow(m.DailyPointCount, today, windowDays),
		TimeOfLastParticipation: m.TimeOfLastParticipation.Format(time.RFC3339),
	}
}
