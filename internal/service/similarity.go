package service

import (
	"sort"
	"strings"

	"tradein-estimator/internal/model"
)

const DefaultSimilarCount = 5

// ScoreRecord rates how close a past trade-in is to the boat being valued:
// +4 same type, +2 same make, +3 within two model years or +1 within five,
// +2 within 25 HP. A record horsepower of 0 means unknown and never scores.
func ScoreRecord(profile model.BoatProfile, rec model.HistoricalRecord) int {
	score := 0
	if strings.EqualFold(rec.BoatType, string(profile.BoatType)) {
		score += 4
	}
	if strings.EqualFold(rec.Make, profile.Make) {
		score += 2
	}

	switch yearDelta := abs(rec.Year - profile.Year); {
	case yearDelta <= 2:
		score += 3
	case yearDelta <= 5:
		score += 1
	}

	if rec.EngineHP > 0 && abs(rec.EngineHP-profile.Horsepower) <= 25 {
		score += 2
	}
	return score
}

// TopSimilar returns up to k records ordered by descending score. Equal scores
// keep load order. k <= 0 uses DefaultSimilarCount.
func TopSimilar(profile model.BoatProfile, records []model.HistoricalRecord, k int) []model.ScoredRecord {
	if k <= 0 {
		k = DefaultSimilarCount
	}

	scored := make([]model.ScoredRecord, 0, len(records))
	for _, rec := range records {
		scored = append(scored, model.ScoredRecord{HistoricalRecord: rec, Score: ScoreRecord(profile, rec)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
