package dto

import (
	"tradein-estimator/internal/model"
)

// ImagePart is one inline photo, base64 encoded.
type ImagePart struct {
	MimeType string `json:"mimeType" validate:"required,startswith=image/"`
	Data     string `json:"data" validate:"required,base64"`
}

type EstimateRequest struct {
	FormData   *TradeInFormRequest `json:"formData"`
	ImageParts []ImagePart         `json:"imageParts"`
}

type ChatRequest struct {
	SystemInstruction string              `json:"systemInstruction"`
	History           []model.ChatMessage `json:"history"`
}

type ChatResponse struct {
	Text string `json:"text"`
}

type ValidateFormRequest struct {
	Step     int                `json:"step"`
	FormData TradeInFormRequest `json:"formData"`
}

type ValidateFormResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

type AppraisalRequest struct {
	FormData *TradeInFormRequest `json:"formData"`
	Estimate model.Estimate      `json:"estimate"`
}
