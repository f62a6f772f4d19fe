package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sargiotti/BackEndServer/errors"
	"github.com/sargiotti/BackEndServer/models"
	"github.com/sargiotti/BackEndServer/services/pipeline"
)

type PipelineHandler struct {
	service pipeline.Service
}

func NewPipelineHandler(service pipeline.Service) *PipelineHandler {
	return &PipelineHandler{service: service}
}

// WithTimeout bounds each request with a single deadline shared by every
// pipeline stage the handler invokes.
func WithTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// Root is the plain-text liveness probe.
func (h *PipelineHandler) Root(c *fiber.Ctx) error {
	return c.SendString("Server is running")
}

// HealthCheck reports service health.
func HealthCheck(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// SetVideo stores the submitted video URL.
func (h *PipelineHandler) SetVideo(c *fiber.Ctx) error {
	var req models.VideoRequest
	if err := c.BodyParser(&req); err != nil {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "URL is required",
			Err:     err,
		}
	}
	if req.URL == "" {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "URL is required",
		}
	}

	if err := h.service.SetVideo(c.UserContext(), req.URL); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Video URL saved successfully",
	})
}

// GetVideo returns the stored video reference; the empty-url sentinel when
// none has been set yet.
func (h *PipelineHandler) GetVideo(c *fiber.Ctx) error {
	ref, err := h.service.GetVideo(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(ref)
}

// Metadata probes the video given by query, falling back to the stored
// reference.
func (h *PipelineHandler) Metadata(c *fiber.Ctx) error {
	meta, err := h.service.Metadata(c.UserContext(), c.Query("url"))
	if err != nil {
		return err
	}
	return c.JSON(meta)
}

// ExtractAudio extracts the fixed 15-second clip and responds per the
// configured delivery mode.
func (h *PipelineHandler) ExtractAudio(c *fiber.Ctx) error {
	result, err := h.service.ExtractAudio(c.UserContext(), c.Query("url"))
	if err != nil {
		return err
	}

	if result.Inline != nil {
		c.Set(fiber.HeaderContentType, "audio/mpeg")
		return c.Send(result.Inline)
	}

	return c.JSON(models.AudioResponse{
		Message: "Audio processed and uploaded",
		Key:     result.Key,
		URL:     result.URL,
	})
}

// FirstFrame extracts and uploads the first frame.
func (h *PipelineHandler) FirstFrame(c *fiber.Ctx) error {
	result, err := h.service.ExtractFrame(c.UserContext(), c.Query("url"))
	if err != nil {
		return err
	}

	return c.JSON(models.FrameResponse{
		ImageURL: result.ImageURL,
		Key:      result.Key,
	})
}

// ProcessAudio transcribes and translates an uploaded clip. The body may
// name a clip key; otherwise the most recent upload is used.
func (h *PipelineHandler) ProcessAudio(c *fiber.Ctx) error {
	var req models.ProcessAudioRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return &errors.AppError{
				Code:    fiber.StatusBadRequest,
				Message: "Invalid request body",
				Err:     err,
			}
		}
	}

	result, err := h.service.ProcessAudio(c.UserContext(), req.Key)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// ConvertTextToSpeech synthesizes speech and returns the raw audio payload.
func (h *PipelineHandler) ConvertTextToSpeech(c *fiber.Ctx) error {
	var req models.TextRequest
	if err := c.BodyParser(&req); err != nil {
		return &errors.AppError{
			Code:    fiber.StatusBadRequest,
			Message: "Text is required",
			Err:     err,
		}
	}

	result, err := h.service.Synthesize(c.UserContext(), req.Text)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(result.AudioBytes)
}

// PerformOCR detects text in an uploaded frame, by query key or the most
// recent upload.
func (h *PipelineHandler) PerformOCR(c *fiber.Ctx) error {
	result, err := h.service.PerformOCR(c.UserContext(), c.Query("key"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
