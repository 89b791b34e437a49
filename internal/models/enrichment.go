// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package models

import "time"

// Sentiment classifies the overall audience sentiment for a movie.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is a member of the sentiment enumeration.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// BudgetTier classifies a movie's production budget.
type BudgetTier string

const (
	BudgetLow         BudgetTier = "low"
	BudgetMedium      BudgetTier = "medium"
	BudgetHigh        BudgetTier = "high"
	BudgetBlockbuster BudgetTier = "blockbuster"
)

// Valid reports whether t is a member of the budget tier enumeration.
func (t BudgetTier) Valid() bool {
	switch t {
	case BudgetLow, BudgetMedium, BudgetHigh, BudgetBlockbuster:
		return true
	default:
		return false
	}
}

// RevenueTier classifies a movie's box-office outcome.
type RevenueTier string

const (
	RevenueFlop        RevenueTier = "flop"
	RevenueModerate    RevenueTier = "moderate"
	RevenueSuccess     RevenueTier = "success"
	RevenueBlockbuster RevenueTier = "blockbuster"
)

// Valid reports whether t is a member of the revenue tier enumeration.
func (t RevenueTier) Valid() bool {
	switch t {
	case RevenueFlop, RevenueModerate, RevenueSuccess, RevenueBlockbuster:
		return true
	default:
		return false
	}
}

// Enrichment holds LLM-derived attributes for a movie. At most one record
// exists per movie id; recomputation replaces the record entirely.
type Enrichment struct {
	// MovieID is the catalog item the attributes describe.
	MovieID int64 `json:"movie_id"`

	// Sentiment is the overall audience sentiment.
	Sentiment Sentiment `json:"sentiment"`

	// BudgetTier classifies the production budget.
	BudgetTier BudgetTier `json:"budget_tier"`

	// RevenueTier classifies the box-office outcome.
	RevenueTier RevenueTier `json:"revenue_tier"`

	// Effectiveness is an integer score in [0,100] for how well the movie
	// delivered relative to its budget.
	Effectiveness int `json:"effectiveness"`

	// TargetAudience is a short description of who the movie is for.
	TargetAudience string `json:"target_audience"`

	// ComputedAt is when the attributes were last computed.
	ComputedAt time.Time `json:"computed_at"`
}
