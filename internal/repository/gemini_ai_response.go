package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"tradein-estimator/internal/model"
)

var fencedBlockRegexp = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// jsonCandidate picks a JSON object out of model text, reporting false when
// its shape is not present.
type jsonCandidate func(text string) (string, bool)

var estimateCandidates = []jsonCandidate{
	fencedBlock,
	braceSpan,
}

func fencedBlock(text string) (string, bool) {
	m := fencedBlockRegexp.FindStringSubmatch(text)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func braceSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// flexNumber accepts 12000, 12000.5 or "12,000". Only comparables use it;
// the estimate bounds must be JSON numbers.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, ok := ParseCurrency(s)
		if !ok {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = flexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = flexNumber(v)
	return nil
}

func (n flexNumber) int() int {
	return int(math.Round(float64(n)))
}

type rawComparable struct {
	Make   string     `json:"make"`
	Model  string     `json:"model"`
	Year   flexNumber `json:"year"`
	Price  flexNumber `json:"price"`
	Source string     `json:"source"`
}

type rawEstimate struct {
	Low                 *float64        `json:"low"`
	High                *float64        `json:"high"`
	Reasoning           string          `json:"reasoning"`
	Comparables         []rawComparable `json:"comparables"`
	ValueAddingFeatures []string        `json:"valueAddingFeatures"`
	PotentialDeductions []string        `json:"potentialDeductions"`
	LeadQuality         string          `json:"leadQuality"`
}

// ExtractEstimate recovers the estimate object from a model reply. Candidates
// are tried in order and the first one found is parsed; a reply with no
// object, or one whose low or high bound is missing, not a JSON number, or out
// of range, is ErrMalformedResponse.
func ExtractEstimate(text string) (model.Estimate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Estimate{}, fmt.Errorf("%w: The AI model returned an empty response.", model.ErrMalformedResponse)
	}

	var candidate string
	found := false
	for _, pick := range estimateCandidates {
		if candidate, found = pick(text); found {
			break
		}
	}
	if !found {
		return model.Estimate{}, fmt.Errorf("%w: no JSON object in reply", model.ErrMalformedResponse)
	}

	var raw rawEstimate
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return model.Estimate{}, fmt.Errorf("%w: %w", model.ErrMalformedResponse, err)
	}
	if raw.Low == nil || raw.High == nil {
		return model.Estimate{}, fmt.Errorf("%w: low and high are required", model.ErrMalformedResponse)
	}
	low, err := boundValue("low", *raw.Low)
	if err != nil {
		return model.Estimate{}, err
	}
	high, err := boundValue("high", *raw.High)
	if err != nil {
		return model.Estimate{}, err
	}

	est := model.Estimate{
		Low:                 low,
		High:                high,
		Reasoning:           raw.Reasoning,
		Comparables:         make([]model.Comparable, 0, len(raw.Comparables)),
		ValueAddingFeatures: nonNil(raw.ValueAddingFeatures),
		PotentialDeductions: nonNil(raw.PotentialDeductions),
		LeadQuality:         model.ParseLeadQuality(raw.LeadQuality),
	}
	for _, c := range raw.Comparables {
		est.Comparables = append(est.Comparables, model.Comparable{
			Make:   c.Make,
			Model:  c.Model,
			Year:   c.Year.int(),
			Price:  float64(c.Price),
			Source: c.Source,
		})
	}
	return est, nil
}

// maxBound keeps rounded bounds representable as int on every platform.
const maxBound = math.MaxInt32

func boundValue(name string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxBound {
		return 0, fmt.Errorf("%w: %s out of range: %g", model.ErrMalformedResponse, name, v)
	}
	return int(math.Round(v)), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
