package dto

import "github.com/google/uuid"

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

type SourceLink struct {
	I     int    `json:"i"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type ChatResponse struct {
	Answer   string       `json:"answer"`
	Sources  []SourceLink `json:"sources"`
	Grounded bool         `json:"grounded"`
}

type AffidavitRequest struct {
	VisaAppId uuid.UUID              `json:"visa_app_id" validate:"required"`
	VisaType  string                 `json:"visa_type" validate:"required"`
	Inputs    map[string]interface{} `json:"inputs"`
}

type AffidavitResponse struct {
	Draft string `json:"draft"`
}
