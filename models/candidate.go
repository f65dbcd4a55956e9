package models

import (
	"time"

	"gorm.io/gorm"
)

// Candidate is an electable entity that accumulates votes.
// VoteCount is kept in lockstep with the number of Vote rows.
type Candidate struct {
	gorm.Model
	Name      string `gorm:"not null" json:"name"`
	Party     string `gorm:"not null" json:"party"`
	VoteCount int    `gorm:"not null;default:0" json:"voteCount"`
	Votes     []Vote `gorm:"constraint:OnDelete:CASCADE" json:"votes,omitempty"`
}

// Vote records a single ballot cast by a user for a candidate.
// The unique index on UserID backs the one-vote-per-user rule at the
// storage layer.
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CandidateID uint      `gorm:"not null;index" json:"candidateId"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"userId"`
	CastAt      time.Time `gorm:"not null;default:now()" json:"castAt"`
}

// CandidateSummary is the public projection of a candidate.
type CandidateSummary struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

// PartyTally pairs a party with its accumulated vote count.
type PartyTally struct {
	Party string `json:"party"`
	Count int    `json:"count"`
}
