// Package consensus turns raw per-user responses into the aggregate metrics
// shown on every point and synapse.
package consensus

import "hivemind/domain/hive"

// Aggregate is the computed consensus triple for one item.
type Aggregate struct {
	// MyResponse is the requesting user's stance: -1, 0 or +1.
	MyResponse int
	// CommonResponse is the net sentiment of all responses, in [-1, 1].
	CommonResponse float64
	// Penetration is the fraction of the hive's participants who responded,
	// in [0, 1].
	Penetration float64
}

// Compute aggregates the responses on an item for a given viewer. Both
// divisions are guarded: an item with no responses has a common response of
// exactly zero, and a hive with no participants has zero penetration.
func Compute(responses hive.ResponseList, userID string, totalParticipation int) Aggregate {
	var agg Aggregate
	if len(responses) == 0 {
		return agg
	}

	if mine, ok := responses.ByUser(userID); ok {
		if mine.Agrees {
			agg.MyResponse = 1
		} else {
			agg.MyResponse = -1
		}
	}

	positive := 0
	for _, r := range responses {
		if r.Agrees {
			positive++
		}
	}
	negative := len(responses) - positive
	agg.CommonResponse = float64(positive-negative) / float64(len(responses))

	if totalParticipation > 0 {
		agg.Penetration = float64(len(responses)) / float64(totalParticipation)
	}
	return agg
}
