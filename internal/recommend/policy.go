// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package recommend

// Pipeline policy constants.
const (
	// enhanceThreshold is the query length above which enhancement is
	// skipped. Long queries are assumed already descriptive. The check
	// is purely length-based; there is no semantic judgment.
	enhanceThreshold = 100

	// retrievalTopK is the fixed retrieval width, independent of the
	// caller-visible limit, so the reasoning step has a wide pool to
	// re-rank from.
	retrievalTopK = 50

	// maxPromptCandidates bounds how many assembled candidates enter the
	// reasoning prompt.
	maxPromptCandidates = 20

	// maxRecommendations caps the returned list regardless of the
	// caller-requested limit.
	maxRecommendations = 10

	// compareMin and compareMax bound the comparison flow's id list.
	compareMin = 2
	compareMax = 5

	// topRatedCount is how many history entries a preference summary
	// echoes back.
	topRatedCount = 5
)

// Fixed caller-facing messages for terminal empty results.
const (
	// blockedMessage explains a blocked query without echoing the reason.
	blockedMessage = "Your query could not be processed."

	// noMoviesMessage is the terminal message for an empty index and for
	// zero retrieval hits.
	noMoviesMessage = "No movies were found with provided query."

	// unavailableMessage explains a reasoning-service outage.
	unavailableMessage = "Recommendations are temporarily unavailable. Please try again later."

	// invalidResponseMessage explains a response that failed validation.
	invalidResponseMessage = "Recommendations could not be generated for this query."

	// reasoningPlaceholder substitutes a missing or mistyped reasoning
	// field.
	reasoningPlaceholder = "(reasoning unavailable)"
)
