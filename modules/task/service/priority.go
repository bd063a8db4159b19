package service

import "math"

// Blend weights for the priority score. Importance dominates so that a
// high-urgency low-importance task never outranks a critical one.
const (
	importanceWeight = 0.6
	urgencyWeight    = 0.4
)

// ComputePriorityScore blends importance and urgency into a single score
// rounded to two decimals. Returns nil when either input is missing so
// unranked tasks stay unranked instead of defaulting to zero.
func ComputePriorityScore(importance, urgency *float64) *float64 {
	if importance == nil || urgency == nil {
		return nil
	}
	score := math.Round((importanceWeight*(*importance)+urgencyWeight*(*urgency))*100) / 100
	return &score
}
