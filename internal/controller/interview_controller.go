package controller

import (
	"encoding/json"
	"strings"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IInterviewController interface {
	RegisterRoutes(r fiber.Router)
	Feedback(ctx *fiber.Ctx) error
}

type interviewController struct {
	service service.IInterviewService
	auth    fiber.Handler
}

func NewInterviewController(service service.IInterviewService, auth fiber.Handler) IInterviewController {
	return &interviewController{service: service, auth: auth}
}

func (c *interviewController) RegisterRoutes(r fiber.Router) {
	r.Post("/interview/feedback", c.auth, c.Feedback)
}

// Feedback accepts either a JSON body or a multipart form carrying an audio
// recording. The response is returned without the envelope.
func (c *interviewController) Feedback(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}

	var req dto.InterviewFeedbackRequest
	if strings.HasPrefix(string(ctx.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		closeAudio, err := c.parseForm(ctx, &req)
		if err != nil {
			return err
		}
		defer closeAudio()
	} else if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Feedback(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *interviewController) parseForm(ctx *fiber.Ctx, req *dto.InterviewFeedbackRequest) (func(), error) {
	req.Transcript = ctx.FormValue("transcript")
	req.PromptContext = ctx.FormValue("promptContext")
	req.Answers = parseAnswers(ctx.FormValue("answers"))

	if raw := strings.TrimSpace(ctx.FormValue("visa_app_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.Validation("Invalid visa_app_id")
		}
		req.VisaAppId = &id
	}

	header, err := ctx.FormFile("audio")
	if err != nil {
		return func() {}, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, apperror.Validation("Could not read audio file")
	}
	req.Audio = file
	req.AudioFilename = header.Filename
	return func() { file.Close() }, nil
}

// parseAnswers reads the answers form field, which is either a JSON array of
// strings or a single free-text answer.
func parseAnswers(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var answers []string
	if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &answers) == nil {
		return answers
	}
	return []string{raw}
}
