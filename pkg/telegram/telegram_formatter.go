package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// AppraisalAlert is what staff need to follow up on an in-person appraisal request.
type AppraisalAlert struct {
	RequestedAt time.Time
	FullName    string
	Email       string
	Phone       string
	PostalCode  string
	Boat        string
	Horsepower  int
	EngineHours int
	Trailer     bool
	Condition   string
	Low         int
	High        int
	LeadQuality string
}

// FormatAppraisalAlert renders the alert as Telegram HTML.
func FormatAppraisalAlert(a AppraisalAlert) string {
	esc := html.EscapeString
	trailer := "No"
	if a.Trailer {
		trailer = "Yes"
	}

	var sb strings.Builder
	sb.WriteString("🚤 <b>Appraisal requested</b>\n")
	sb.WriteString(fmt.Sprintf("%s\n\n", a.RequestedAt.UTC().Format("2006-01-02 15:04 MST")))
	sb.WriteString(fmt.Sprintf("👤 %s\n", esc(a.FullName)))
	sb.WriteString(fmt.Sprintf("✉️ %s | 📞 %s | 📮 %s\n\n", esc(a.Email), esc(a.Phone), esc(a.PostalCode)))
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", esc(a.Boat)))
	sb.WriteString(fmt.Sprintf("%dHP, %d hours, trailer: %s\n", a.Horsepower, a.EngineHours, trailer))
	sb.WriteString(fmt.Sprintf("Condition: %s\n", esc(a.Condition)))
	if a.Low > 0 {
		sb.WriteString(fmt.Sprintf("💰 Estimate: $%d - $%d CAD\n", a.Low, a.High))
	} else {
		sb.WriteString("💰 Estimate: not available\n")
	}
	sb.WriteString(fmt.Sprintf("Lead quality: <b>%s</b>\n", esc(a.LeadQuality)))
	return sb.String()
}
