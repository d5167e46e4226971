package dto

import "io"

type TranslationOrderRequest struct {
	Filename   string
	File       io.Reader
	TargetLang string
	VisaAppId  string
	EvidenceId string
}
