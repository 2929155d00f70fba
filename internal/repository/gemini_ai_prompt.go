package repository

import (
	"fmt"
	"strconv"
	"strings"

	"tradein-estimator/internal/model"
)

const estimateSystemInstruction = `You are a marine vehicle appraisal expert for Legend Boats, a Canadian boat dealership. Your primary goal is to provide an accurate, data-driven trade-in estimate to a customer. You must be professional, transparent, and manage expectations. Always ground your estimate in the provided historical data and current market comparables found via Google Search. Your final response must strictly be the JSON object as requested. Do not add any conversational text outside of the JSON structure.`

const noSimilarTradesNotice = "No similar historical trades found in our database."

// BuildEstimatePrompt renders the estimate request for one boat. The output
// depends only on its arguments.
func BuildEstimatePrompt(profile model.BoatProfile, similar []model.ScoredRecord) string {
	var sb strings.Builder

	sb.WriteString("Analyze the following used boat details to provide a realistic 'ballpark' trade-in value range for a Legend Boats dealership in Canada. ")
	sb.WriteString("The final output must be a single JSON object, enclosed in a markdown code fence (```json ... ```).\n\n")

	sb.WriteString("**User Provided Boat Details:**\n")
	fmt.Fprintf(&sb, "- **Boat Type:** %s\n", profile.BoatType)
	fmt.Fprintf(&sb, "- **Year:** %d\n", profile.Year)
	fmt.Fprintf(&sb, "- **Make:** %s\n", profile.Make)
	fmt.Fprintf(&sb, "- **Model:** %s\n", profile.Model)
	fmt.Fprintf(&sb, "- **Engine Horsepower:** %d HP\n", profile.Horsepower)
	fmt.Fprintf(&sb, "- **Engine Hours:** %d hours\n", profile.EngineHours)
	fmt.Fprintf(&sb, "- **Includes Trailer:** %s\n", yesNo(profile.Trailer))
	fmt.Fprintf(&sb, "- **Cosmetic Condition:** %s\n", profile.CosmeticCondition)
	fmt.Fprintf(&sb, "- **Mechanical Condition:** %s\n", profile.MechanicalCondition)
	if profile.HIN != "" {
		fmt.Fprintf(&sb, "- **HIN:** %s\n", profile.HIN)
	}
	if profile.EngineMake != "" {
		fmt.Fprintf(&sb, "- **Engine Make:** %s\n", profile.EngineMake)
	}

	sb.WriteString("\n**Dealership's Historical Data (Primary Grounding):**\n")
	if len(similar) == 0 {
		sb.WriteString(noSimilarTradesNotice)
		sb.WriteString("\n")
	} else {
		sb.WriteString("Here are some similar, real-world trade-ins this dealership has made recently. Use these as a primary grounding for your estimate:\n")
		for _, rec := range similar {
			fmt.Fprintf(&sb, "- %d %s %s (%dHP): Valued at $%s CAD\n",
				rec.Year, rec.Make, rec.Model, rec.EngineHP, formatAmount(rec.TradeInValueCAD))
		}
	}

	sb.WriteString(`
**Instructions:**
1.  **Estimate Value:** Provide a 'low' and 'high' integer value in Canadian Dollars (CAD). This range should reflect what a dealer would realistically offer, not the private sale price.
2.  **Reasoning:** Write a brief, customer-facing paragraph explaining the rationale behind your estimate. Mention the key factors you considered (e.g., market demand, age, hours, condition).
3.  **Market Comparables:** Use Google Search to find 2-3 current, publicly listed comparable boats for sale in Canada. Provide the make, model, year, price, and the source URL for each.
4.  **Value Factors:**
    - List 2-4 positive attributes as 'valueAddingFeatures' (e.g., "Low engine hours for its age," "Popular and sought-after model").
    - List 2-4 potential issues as 'potentialDeductions' (e.g., "Cosmetic condition implies some reconditioning costs," "High engine hours may require more thorough inspection").
5.  **Lead Quality:** Assess the sales lead quality as 'High', 'Medium', or 'Low'. A 'High' quality lead would be a popular, late-model boat in good condition.

**JSON Output Format:**
` + "```json" + `
{
  "low": 0,
  "high": 0,
  "reasoning": "",
  "comparables": [
    { "make": "", "model": "", "year": 0, "price": 0, "source": "" }
  ],
  "valueAddingFeatures": [""],
  "potentialDeductions": [""],
  "leadQuality": "Medium"
}
` + "```" + "\n")

	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// formatAmount drops the fraction for whole dollar values.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
