package pipeline

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sargiotti/BackEndServer/config"
	"github.com/sargiotti/BackEndServer/errors"
	"github.com/sargiotti/BackEndServer/models"
	"github.com/sargiotti/BackEndServer/validation"
)

type service struct {
	refs       ReferenceStore
	transcoder Transcoder
	artifacts  Artifacts
	uploader   Uploader
	ai         AI
	validator  *validation.Validator
	config     Config
	logger     zerolog.Logger

	// Latest successfully uploaded artifact keys. Keys are uuid-derived and
	// unique per extraction; this pointer only exists so the parameterless
	// process-audio/OCR operations have an explicit identity to work on.
	mu           sync.Mutex
	lastAudioKey string
	lastFrameKey string
}

func NewService(
	refs ReferenceStore,
	transcoder Transcoder,
	artifacts Artifacts,
	uploader Uploader,
	ai AI,
	validator *validation.Validator,
	cfg Config,
	logger zerolog.Logger,
) Service {
	return &service{
		refs:       refs,
		transcoder: transcoder,
		artifacts:  artifacts,
		uploader:   uploader,
		ai:         ai,
		validator:  validator,
		config:     cfg,
		logger:     logger,
	}
}

func (s *service) SetVideo(ctx context.Context, url string) error {
	const op = "PipelineService.SetVideo"

	if err := s.validator.ValidateURL(url); err != nil {
		return err
	}

	if err := s.refs.Set(models.VideoReference{URL: url}); err != nil {
		s.logger.Error().Str("operation", op).Err(err).Msg("Failed to save video reference")
		return errors.Internal(op, err, "Error saving the video URL")
	}

	s.logger.Info().Str("operation", op).Str("url", url).Msg("Video reference saved")
	return nil
}

func (s *service) GetVideo(ctx context.Context) (models.VideoReference, error) {
	const op = "PipelineService.GetVideo"

	ref, err := s.refs.Get()
	if err != nil {
		s.logger.Error().Str("operation", op).Err(err).Msg("Failed to read video reference")
		return models.VideoReference{}, errors.Internal(op, err, "Error reading the video URL")
	}
	return ref, nil
}

func (s *service) Metadata(ctx context.Context, url string) (models.VideoMetadata, error) {
	const op = "PipelineService.Metadata"

	url, err := s.resolveURL(op, url)
	if err != nil {
		return models.VideoMetadata{}, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.config.ProbeTimeout)
	defer cancel()

	meta, err := s.transcoder.Probe(probeCtx, url)
	if err != nil {
		return models.VideoMetadata{}, s.fail(op, err, "Error extracting video metadata")
	}
	return meta, nil
}

func (s *service) ExtractAudio(ctx context.Context, url string) (*AudioExtraction, error) {
	const op = "PipelineService.ExtractAudio"

	url, err := s.resolveURL(op, url)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With().Str("operation", op).Str("url", url).Logger()

	artifact := s.artifacts.New(models.KindAudio)

	transcodeCtx, cancel := context.WithTimeout(ctx, s.config.TranscodeTimeout)
	defer cancel()

	artifact, err = s.transcoder.ExtractAudioClip(transcodeCtx, url, artifact)
	if err != nil {
		return nil, s.fail(op, err, "Error processing video")
	}

	// The local clip must not outlive this request, whatever happens next.
	defer func() {
		if err := s.artifacts.Remove(artifact); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove local audio artifact")
		}
	}()

	if s.config.AudioDelivery == config.DeliveryInline {
		data, err := s.artifacts.Read(artifact)
		if err != nil {
			return nil, s.fail(op, err, "Error reading extracted audio")
		}
		logger.Info().Int("bytes", len(data)).Msg("Audio extracted for inline delivery")
		return &AudioExtraction{Key: artifact.RemoteKey, Inline: data}, nil
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	publicURL, err := s.uploader.Upload(uploadCtx, artifact.LocalPath, artifact.RemoteKey)
	if err != nil {
		return nil, s.fail(op, err, "Error uploading audio")
	}

	s.recordKey(models.KindAudio, artifact.RemoteKey)
	logger.Info().Str("key", artifact.RemoteKey).Str("public_url", publicURL).Msg("Audio uploaded")

	return &AudioExtraction{Key: artifact.RemoteKey, URL: publicURL}, nil
}

func (s *service) ExtractFrame(ctx context.Context, url string) (*FrameExtraction, error) {
	const op = "PipelineService.ExtractFrame"

	url, err := s.resolveURL(op, url)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With().Str("operation", op).Str("url", url).Logger()

	artifact := s.artifacts.New(models.KindFrame)

	transcodeCtx, cancel := context.WithTimeout(ctx, s.config.TranscodeTimeout)
	defer cancel()

	artifact, err = s.transcoder.ExtractFrame(transcodeCtx, url, artifact)
	if err != nil {
		return nil, s.fail(op, err, "Error extracting first frame")
	}

	defer func() {
		if err := s.artifacts.Remove(artifact); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove local frame artifact")
		}
	}()

	uploadCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	publicURL, err := s.uploader.Upload(uploadCtx, artifact.LocalPath, artifact.RemoteKey)
	if err != nil {
		return nil, s.fail(op, err, "Error processing the image file")
	}

	s.recordKey(models.KindFrame, artifact.RemoteKey)
	logger.Info().Str("key", artifact.RemoteKey).Str("public_url", publicURL).Msg("Frame uploaded")

	return &FrameExtraction{Key: artifact.RemoteKey, ImageURL: publicURL}, nil
}

func (s *service) ProcessAudio(ctx context.Context, key string) (*models.ProcessAudioResponse, error) {
	const op = "PipelineService.ProcessAudio"

	key, err := s.resolveKey(op, models.KindAudio, key)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With().Str("operation", op).Str("key", key).Logger()

	recognizeCtx, cancel := context.WithTimeout(ctx, s.config.RemoteTimeout)
	defer cancel()

	transcription, err := s.ai.Transcribe(recognizeCtx, s.uploader.PublicURL(key))
	if err != nil {
		return nil, s.fail(op, err, "Error processing audio")
	}

	translateCtx, cancel := context.WithTimeout(ctx, s.config.RemoteTimeout)
	defer cancel()

	translation, err := s.ai.Translate(translateCtx, transcription.Text, s.config.TargetLanguage)
	if err != nil {
		return nil, s.fail(op, err, "Error processing audio")
	}

	logger.Info().
		Int("transcription_length", len(transcription.Text)).
		Int("translation_length", len(translation.Text)).
		Msg("Audio processed")

	return &models.ProcessAudioResponse{
		Transcription:  transcription.Text,
		Translation:    translation.Text,
		TargetLanguage: translation.TargetLanguage,
	}, nil
}

func (s *service) Synthesize(ctx context.Context, text string) (models.SynthesisResult, error) {
	const op = "PipelineService.Synthesize"

	if err := s.validator.ValidateText(text); err != nil {
		return models.SynthesisResult{}, err
	}

	synthCtx, cancel := context.WithTimeout(ctx, s.config.RemoteTimeout)
	defer cancel()

	result, err := s.ai.Synthesize(synthCtx, text, s.config.SynthesisLanguage)
	if err != nil {
		return models.SynthesisResult{}, s.fail(op, err, "Error during text-to-speech conversion")
	}
	return result, nil
}

func (s *service) PerformOCR(ctx context.Context, key string) (models.OCRResult, error) {
	const op = "PipelineService.PerformOCR"

	key, err := s.resolveKey(op, models.KindFrame, key)
	if err != nil {
		return models.OCRResult{}, err
	}

	ocrCtx, cancel := context.WithTimeout(ctx, s.config.RemoteTimeout)
	defer cancel()

	result, err := s.ai.DetectText(ocrCtx, s.uploader.PublicURL(key))
	if err != nil {
		return models.OCRResult{}, s.fail(op, err, "Failed to perform OCR")
	}
	return result, nil
}

// resolveURL falls back to the stored reference when no URL was supplied.
func (s *service) resolveURL(op, url string) (string, error) {
	if url != "" {
		if err := s.validator.ValidateURL(url); err != nil {
			return "", err
		}
		return url, nil
	}

	ref, err := s.refs.Get()
	if err != nil {
		return "", errors.Internal(op, err, "No video URL available")
	}
	if ref.URL == "" {
		return "", errors.NotFound(op, nil, "No video URL found")
	}
	return ref.URL, nil
}

// resolveKey falls back to the most recently uploaded artifact of the kind.
func (s *service) resolveKey(op string, kind models.ArtifactKind, key string) (string, error) {
	if key != "" {
		return key, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.lastAudioKey
	if kind == models.KindFrame {
		last = s.lastFrameKey
	}
	if last == "" {
		return "", errors.NotFound(op, nil, "No uploaded artifact available")
	}
	return last, nil
}

func (s *service) recordKey(kind models.ArtifactKind, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == models.KindFrame {
		s.lastFrameKey = key
	} else {
		s.lastAudioKey = key
	}
}

// fail logs the internal detail and returns the uniform external error.
// Deadline expiry is reported as a timeout rather than a generic failure.
func (s *service) fail(op string, err error, message string) *errors.AppError {
	s.logger.Error().Str("operation", op).Err(err).Msg("Pipeline stage failed")

	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(op, err, "Operation timed out")
	}
	return errors.Internal(op, err, message)
}
