package dto

import (
	"io"

	"github.com/google/uuid"
)

type InterviewFeedbackRequest struct {
	Transcript    string     `json:"transcript"`
	Answers       []string   `json:"answers"`
	PromptContext string     `json:"promptContext"`
	VisaAppId     *uuid.UUID `json:"visa_app_id"`

	// Audio is only set for multipart requests without a transcript.
	Audio         io.Reader `json:"-"`
	AudioFilename string    `json:"-"`
}

type InterviewFeedbackResponse struct {
	Feedback         string `json:"feedback"`
	UsedTranscript   bool   `json:"usedTranscript"`
	UsedAnswers      bool   `json:"usedAnswers"`
	CreditsRemaining *int   `json:"creditsRemaining"`
}
