package cloud

import (
	"context"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type Config struct {
	APIKey  string
	BaseURL string

	TranscriptionModel string
	ChatModel          string
	SpeechModel        string
	SpeechVoice        string

	RecognitionLanguage string
	SampleRateHertz     int

	// Client-side cap on outbound calls, shared by every adapter, so a
	// burst of pipeline requests cannot stampede the upstream quota.
	RequestsPerSecond float64
	Burst             int
}

// Client bundles the four remote AI adapters behind one API client and one
// shared rate limiter.
type Client struct {
	api     *openai.Client
	http    *http.Client
	limiter *rate.Limiter
	config  Config
	logger  zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiConfig),
		http:    &http.Client{Timeout: 5 * time.Minute},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		config:  cfg,
		logger:  logger,
	}
}

func (c *Client) wait(ctx context.Context, service, op string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return newError(service, op, err, "rate limit wait cancelled")
	}
	return nil
}
