package service

import (
	"fmt"

	"tradein-estimator/internal/model"
)

// BuildChatSystemInstruction frames the follow-up chat around a delivered
// estimate. Staff get a shorter context that carries the lead quality.
func BuildChatSystemInstruction(form model.TradeInForm, est model.Estimate, audience model.Audience) string {
	boat := form.Boat
	if audience == model.AudienceInternal {
		return fmt.Sprintf(`You are a helpful chat assistant for Legend Boats staff. The user is generating trade-in estimates.
Initial Boat Context:
- %d %s %s
- Estimate: $%d - $%d CAD
- Lead Quality: %s`,
			boat.Year, boat.Make, boat.Model,
			est.Low, est.High,
			est.LeadQuality,
		)
	}

	return fmt.Sprintf(`You are a helpful chat assistant for Legend Boats. The user has just received a trade-in estimate for their boat. Your role is to answer follow-up questions about the estimate. Be concise and helpful.

Initial Boat Context:
- Type: %s, Year: %d, Make: %s, Model: %s
- Engine: %dHP, %d hours
- Condition: %s (Cosmetic), %s (Mechanical)
- Initial Estimate: $%d - $%d CAD

The user may ask how changes (like engine hours, repairs, or market conditions) would affect this value. Use your general knowledge to provide reasonable adjustments or explanations. Do not provide a new formal estimate range unless explicitly asked.`,
		boat.BoatType, boat.Year, boat.Make, boat.Model,
		boat.Horsepower, boat.EngineHours,
		boat.CosmeticCondition, boat.MechanicalCondition,
		est.Low, est.High,
	)
}

// WelcomeMessage is the model-authored message a chat starts with.
func WelcomeMessage(form model.TradeInForm, audience model.Audience) model.ChatMessage {
	boat := form.Boat
	text := fmt.Sprintf("Hello! I can help answer questions about your estimate for the %d %s %s. How can I help?", boat.Year, boat.Make, boat.Model)
	if audience == model.AudienceInternal {
		text = fmt.Sprintf("Chat initialized for the %d %s %s.", boat.Year, boat.Make, boat.Model)
	}
	return model.ChatMessage{Role: model.ChatRoleModel, Text: text}
}
