package dto

import "github.com/google/uuid"

type GeneratePacketRequest struct {
	VisaAppId uuid.UUID              `json:"visa_app_id" validate:"required"`
	VisaType  string                 `json:"visa_type" validate:"required"`
	Inputs    map[string]interface{} `json:"inputs"`
	Affidavit string                 `json:"affidavit"`
}

type GeneratePacketResponse struct {
	URL string `json:"url"`
}
