package repository

import (
	"strings"
	"testing"

	"tradein-estimator/internal/model"

	"github.com/stretchr/testify/assert"
)

func sampleProfile() model.BoatProfile {
	return model.BoatProfile{
		BoatType:            model.BoatTypeFishing,
		Year:                2019,
		Make:                "Lund",
		Model:               "1650 Rebel XS",
		Horsepower:          90,
		EngineHours:         150,
		Trailer:             true,
		CosmeticCondition:   model.CosmeticGood,
		MechanicalCondition: model.MechanicalTurnKey,
	}
}

func TestBuildEstimatePrompt(t *testing.T) {
	similar := []model.ScoredRecord{
		{HistoricalRecord: model.HistoricalRecord{Year: 2018, Make: "Lund", Model: "1650", EngineHP: 90, TradeInValueCAD: 14500}, Score: 11},
		{HistoricalRecord: model.HistoricalRecord{Year: 2016, Make: "Tracker", Model: "Pro 170", EngineHP: 60, TradeInValueCAD: 9999.5}, Score: 5},
	}

	prompt := BuildEstimatePrompt(sampleProfile(), similar)

	for _, want := range []string{
		"- **Boat Type:** Fishing",
		"- **Year:** 2019",
		"- **Model:** 1650 Rebel XS",
		"- **Engine Horsepower:** 90 HP",
		"- **Engine Hours:** 150 hours",
		"- **Includes Trailer:** Yes",
		"- **Mechanical Condition:** Turn-Key",
		"- 2018 Lund 1650 (90HP): Valued at $14500 CAD",
		"- 2016 Tracker Pro 170 (60HP): Valued at $9999.5 CAD",
		`"leadQuality": "Medium"`,
		"Use Google Search",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, noSimilarTradesNotice)
	assert.NotContains(t, prompt, "**HIN:**")
	assert.NotContains(t, prompt, "**Engine Make:**")
	assert.Less(t, strings.Index(prompt, "2018 Lund"), strings.Index(prompt, "2016 Tracker"))
}

func TestBuildEstimatePrompt_NoSimilar(t *testing.T) {
	profile := sampleProfile()
	profile.HIN = "LUN12345C919"
	profile.EngineMake = "Mercury"
	profile.Trailer = false

	prompt := BuildEstimatePrompt(profile, nil)

	assert.Contains(t, prompt, noSimilarTradesNotice)
	assert.Contains(t, prompt, "- **HIN:** LUN12345C919")
	assert.Contains(t, prompt, "- **Engine Make:** Mercury")
	assert.Contains(t, prompt, "- **Includes Trailer:** No")
}

func TestBuildEstimatePrompt_Deterministic(t *testing.T) {
	similar := []model.ScoredRecord{
		{HistoricalRecord: model.HistoricalRecord{Year: 2018, Make: "Lund", Model: "1650", EngineHP: 90, TradeInValueCAD: 14500}},
	}
	assert.Equal(t, BuildEstimatePrompt(sampleProfile(), similar), BuildEstimatePrompt(sampleProfile(), similar))
}
