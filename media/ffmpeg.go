package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sargiotti/BackEndServer/models"
)

// Clip extraction policy: a fixed-length excerpt from a fixed offset.
const (
	AudioClipOffsetSeconds   = 30
	AudioClipDurationSeconds = 15
)

// waitDelay bounds how long a killed child can hold the stdio pipes open
// before Run gives up waiting on it.
const waitDelay = 3 * time.Second

type Config struct {
	FFmpegPath  string
	FFprobePath string
}

// Gateway wraps the local ffmpeg/ffprobe engine. Its only job is turning
// the engine's completion signal into a value-or-error result while making
// sure no dangling partial file survives a failure.
type Gateway struct {
	config Config
	logger zerolog.Logger
}

func NewGateway(cfg Config, logger zerolog.Logger) (*Gateway, error) {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	return &Gateway{config: cfg, logger: logger}, nil
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Height    int    `json:"height"`
}

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

// Probe extracts container duration and video height without caching.
// Duration is rounded to two decimal places.
func (g *Gateway) Probe(ctx context.Context, videoURL string) (models.VideoMetadata, error) {
	const op = "Gateway.Probe"

	cmd := exec.CommandContext(ctx, g.config.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoURL,
	)

	output, err := g.run(ctx, cmd)
	if err != nil {
		return models.VideoMetadata{}, newProbeError(op, err, "ffprobe failed")
	}

	meta, err := parseProbeOutput(output)
	if err != nil {
		return models.VideoMetadata{}, newProbeError(op, err, "failed to parse ffprobe output")
	}
	return meta, nil
}

func parseProbeOutput(output []byte) (models.VideoMetadata, error) {
	var probed probeOutput
	if err := json.Unmarshal(output, &probed); err != nil {
		return models.VideoMetadata{}, err
	}

	duration, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return models.VideoMetadata{}, fmt.Errorf("missing container duration: %v", err)
	}

	meta := models.VideoMetadata{
		Duration: math.Round(duration*100) / 100,
	}
	for _, stream := range probed.Streams {
		if stream.CodecType == "video" {
			meta.VideoHeight = stream.Height
			meta.HeightKnown = true
			break
		}
	}
	return meta, nil
}

// ExtractAudioClip re-encodes a 15-second MP3 clip starting at the
// 30-second offset into the artifact's local path. The artifact is returned
// updated, or the partial file is discarded and a TranscodeError returned.
func (g *Gateway) ExtractAudioClip(ctx context.Context, videoURL string, artifact models.MediaArtifact) (models.MediaArtifact, error) {
	const op = "Gateway.ExtractAudioClip"

	cmd := exec.CommandContext(ctx, g.config.FFmpegPath,
		"-y",
		"-i", videoURL,
		"-ss", fmt.Sprintf("00:00:%02d", AudioClipOffsetSeconds),
		"-t", strconv.Itoa(AudioClipDurationSeconds),
		"-vn",
		"-acodec", "libmp3lame",
		artifact.LocalPath,
	)

	if _, err := g.run(ctx, cmd); err != nil {
		g.discard(artifact.LocalPath)
		return models.MediaArtifact{}, newTranscodeError(op, err, "audio extraction failed")
	}

	if err := g.verifyOutput(artifact.LocalPath); err != nil {
		g.discard(artifact.LocalPath)
		return models.MediaArtifact{}, newTranscodeError(op, err, "audio extraction produced no output")
	}

	return artifact, nil
}

// ExtractFrame extracts exactly one frame as a static image.
func (g *Gateway) ExtractFrame(ctx context.Context, videoURL string, artifact models.MediaArtifact) (models.MediaArtifact, error) {
	const op = "Gateway.ExtractFrame"

	cmd := exec.CommandContext(ctx, g.config.FFmpegPath,
		"-y",
		"-i", videoURL,
		"-frames:v", "1",
		artifact.LocalPath,
	)

	if _, err := g.run(ctx, cmd); err != nil {
		g.discard(artifact.LocalPath)
		return models.MediaArtifact{}, newTranscodeError(op, err, "frame extraction failed")
	}

	if err := g.verifyOutput(artifact.LocalPath); err != nil {
		g.discard(artifact.LocalPath)
		return models.MediaArtifact{}, newTranscodeError(op, err, "frame extraction produced no output")
	}

	return artifact, nil
}

func (g *Gateway) run(ctx context.Context, cmd *exec.Cmd) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	g.logger.Debug().
		Str("path", cmd.Path).
		Strs("args", cmd.Args[1:]).
		Msg("Executing media engine")

	if err := cmd.Run(); err != nil {
		stderrOutput := stderr.String()
		g.logger.Error().
			Err(err).
			Str("stderr", stderrOutput).
			Msg("Media engine failed")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("interrupted by deadline: %w (stderr: %s)", ctxErr, stderrOutput)
		}
		return nil, fmt.Errorf("%v (stderr: %s)", err, stderrOutput)
	}

	return stdout.Bytes(), nil
}

// verifyOutput rejects empty files: seeking past the end of a short stream
// can exit cleanly while writing nothing.
func (g *Gateway) verifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("output file is empty")
	}
	return nil
}

func (g *Gateway) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		g.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove partial output")
	}
}
