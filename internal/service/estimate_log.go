package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradein-estimator/internal/model"
	"tradein-estimator/pkg/cache"
)

const estimateLogTimeFormat = "2006-01-02T15:04:05.000Z"

var estimateLogHeader = []string{
	"Timestamp",
	"LeadQuality",
	"EstimatedLow",
	"EstimatedHigh",
	"FullName",
	"Email",
	"Phone",
	"PostalCode",
	"BoatType",
	"Year",
	"Make",
	"Model",
	"HIN",
	"EngineMake",
	"Horsepower",
	"EngineHours",
	"TrailerIncluded",
	"CosmeticCondition",
	"MechanicalCondition",
}

// AppendEstimateLog returns existing with one row for the estimate appended.
// The header is written only when existing is empty.
func AppendEstimateLog(form model.TradeInForm, est model.Estimate, existing string, ts time.Time) string {
	boat := form.Boat
	values := []string{
		ts.UTC().Format(estimateLogTimeFormat),
		string(est.LeadQuality),
		strconv.Itoa(est.Low),
		strconv.Itoa(est.High),
		form.Contact.FullName,
		form.Contact.Email,
		form.Contact.Phone,
		form.Contact.PostalCode,
		string(boat.BoatType),
		strconv.Itoa(boat.Year),
		boat.Make,
		boat.Model,
		boat.HIN,
		boat.EngineMake,
		strconv.Itoa(boat.Horsepower),
		strconv.Itoa(boat.EngineHours),
		yesNo(boat.Trailer),
		string(boat.CosmeticCondition),
		string(boat.MechanicalCondition),
	}

	row := csvRow(values)
	if existing == "" {
		return csvRow(estimateLogHeader) + "\n" + row
	}
	return existing + "\n" + row
}

// csvRow quotes only fields holding a comma, quote or newline.
func csvRow(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		if strings.ContainsAny(v, ",\"\n") {
			v = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		out[i] = v
	}
	return strings.Join(out, ",")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// EstimateLogService keeps one append-only log per session and audience.
type EstimateLogService interface {
	Append(sessionID string, audience model.Audience, form model.TradeInForm, est model.Estimate)
	Get(sessionID string, audience model.Audience) string
}

type estimateLogService struct {
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewEstimateLogService stores logs in c; an entry expires ttl after its last append.
func NewEstimateLogService(c cache.Cache, ttl time.Duration) EstimateLogService {
	return &estimateLogService{
		cache: c,
		ttl:   ttl,
		now:   time.Now,
	}
}

func estimateLogKey(sessionID string, audience model.Audience) string {
	return fmt.Sprintf("estimate_log:%s:%s", audience, sessionID)
}

func (s *estimateLogService) Append(sessionID string, audience model.Audience, form model.TradeInForm, est model.Estimate) {
	ts := s.now()
	s.cache.Update(estimateLogKey(sessionID, audience), s.ttl, func(current interface{}, _ bool) interface{} {
		existing, _ := current.(string)
		return AppendEstimateLog(form, est, existing, ts)
	})
}

func (s *estimateLogService) Get(sessionID string, audience model.Audience) string {
	log, _ := cache.GetFromCache[string](s.cache, estimateLogKey(sessionID, audience))
	return log
}

// EstimateLogFilename is the download name of an audience's log.
func EstimateLogFilename(audience model.Audience) string {
	if audience == model.AudienceInternal {
		return "internal-estimate-log.csv"
	}
	return "estimate-log.csv"
}
