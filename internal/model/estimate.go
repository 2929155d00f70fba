package model

import (
	"fmt"
	"strings"
)

type LeadQuality string

const (
	LeadQualityHigh   LeadQuality = "High"
	LeadQualityMedium LeadQuality = "Medium"
	LeadQualityLow    LeadQuality = "Low"
)

// ParseLeadQuality matches s case-insensitively. Unknown values map to Low.
func ParseLeadQuality(s string) LeadQuality {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return LeadQualityHigh
	case "medium":
		return LeadQualityMedium
	default:
		return LeadQualityLow
	}
}

type Comparable struct {
	Make   string  `json:"make"`
	Model  string  `json:"model"`
	Year   int     `json:"year"`
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}

// Estimate is the model's valuation. Low and High both zero means the
// estimate failed.
type Estimate struct {
	Low                 int          `json:"low"`
	High                int          `json:"high"`
	Reasoning           string       `json:"reasoning"`
	Comparables         []Comparable `json:"comparables"`
	ValueAddingFeatures []string     `json:"valueAddingFeatures"`
	PotentialDeductions []string     `json:"potentialDeductions"`
	LeadQuality         LeadQuality  `json:"leadQuality"`
}

// Succeeded reports whether the estimate carries a usable range.
func (e Estimate) Succeeded() bool {
	return e.Low > 0
}

// DegradedEstimate is what callers show when no estimate could be produced.
func DegradedEstimate(err error) Estimate {
	msg := "An unknown error occurred."
	if err != nil {
		msg = err.Error()
	}
	return Estimate{
		Reasoning: fmt.Sprintf("We encountered a problem generating your estimate. "+
			"This can happen if market data is scarce for this type of boat or due to a technical issue. Error: %s", msg),
		Comparables:         []Comparable{},
		ValueAddingFeatures: []string{},
		PotentialDeductions: []string{},
		LeadQuality:         LeadQualityLow,
	}
}
