package repository

import (
	"encoding/json"
	"testing"

	"tradein-estimator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEstimate() model.Estimate {
	return model.Estimate{
		Low:       12000,
		High:      15500,
		Reasoning: "Popular model, \"clean\" hull, and low hours.",
		Comparables: []model.Comparable{
			{Make: "Lund", Model: "1650 Rebel", Year: 2019, Price: 24999.99, Source: "https://example.com/listing/1"},
		},
		ValueAddingFeatures: []string{"Low engine hours for its age"},
		PotentialDeductions: []string{},
		LeadQuality:         model.LeadQualityHigh,
	}
}

func TestExtractEstimate_RoundTrip(t *testing.T) {
	body, err := json.MarshalIndent(sampleEstimate(), "", "  ")
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
	}{
		{name: "json fence", text: "```json\n" + string(body) + "\n```"},
		{name: "bare fence with chatter", text: "Here is the estimate:\n```\n" + string(body) + "\n```\nThanks!"},
		{name: "no fence", text: "Sure. " + string(body) + " Let me know."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractEstimate(tt.text)
			require.NoError(t, err)
			assert.Equal(t, sampleEstimate(), got)
		})
	}
}

func TestExtractEstimate_Lenient(t *testing.T) {
	got, err := ExtractEstimate(`{"low": 9499.5, "high": 11200.6, "leadQuality": "medium",
		"comparables": [{"make": "Tracker", "model": "Pro 170", "year": "2018", "price": "$17,900", "source": "x"}]}`)
	require.NoError(t, err)

	assert.Equal(t, 9500, got.Low)
	assert.Equal(t, 11201, got.High)
	assert.Equal(t, model.LeadQualityMedium, got.LeadQuality)
	assert.Equal(t, 2018, got.Comparables[0].Year)
	assert.Equal(t, 17900.0, got.Comparables[0].Price)
	assert.NotNil(t, got.ValueAddingFeatures)
	assert.NotNil(t, got.PotentialDeductions)
}

func TestExtractEstimate_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: "   "},
		{name: "no object", text: "I could not find enough data to value this boat."},
		{name: "reversed braces", text: "} nothing here {"},
		{name: "invalid json", text: "```json\n{low: 1}\n```"},
		{name: "missing high", text: `{"low": 1000, "reasoning": "x"}`},
		{name: "non numeric low", text: `{"low": "call us", "high": 2000}`},
		{name: "string bounds", text: `{"low": "12 months", "high": "3 years", "leadQuality": "High"}`},
		{name: "currency string bound", text: `{"low": "9,500", "high": 11000}`},
		{name: "null bound", text: `{"low": null, "high": 11000}`},
		{name: "bounds beyond int range", text: `{"low": 1e30, "high": 2e30}`},
		{name: "negative bound", text: `{"low": -500, "high": 2000}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractEstimate(tt.text)
			assert.ErrorIs(t, err, model.ErrMalformedResponse)
		})
	}
}
