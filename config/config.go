package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir       string `json:"log_dir"`
	TempDir      string `json:"temp_dir"`
	VideoRefPath string `json:"video_ref_path"`

	// Middleware settings
	Middleware MiddlewareConfig `json:"middleware"`

	// CORS Configuration
	CORS CORSConfig `json:"cors"`

	// Rate Limiting
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Media transcoding
	Media MediaConfig `json:"media"`

	// Object storage
	Storage StorageConfig `json:"storage"`

	// Remote AI services
	Cloud CloudConfig `json:"cloud"`

	// Pipeline behavior
	Pipeline PipelineConfig `json:"pipeline"`

	// Application version
	Version string `json:"version"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type MiddlewareConfig struct {
	EnableRecover   bool `json:"enable_recover"`
	EnableRequestID bool `json:"enable_request_id"`
	EnableLogger    bool `json:"enable_logger"`
	EnableCORS      bool `json:"enable_cors"`
	EnableRateLimit bool `json:"enable_rate_limit"`
	EnableCompress  bool `json:"enable_compress"`
	EnableETag      bool `json:"enable_etag"`
}

type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

type RateLimitConfig struct {
	Enabled                bool    `json:"enabled"`
	RequestsPerMinute      int     `json:"requests_per_minute"`
	CloudRequestsPerSecond float64 `json:"cloud_requests_per_second"`
	CloudBurst             int     `json:"cloud_burst"`
}

type MediaConfig struct {
	FFmpegPath       string        `json:"ffmpeg_path"`
	FFprobePath      string        `json:"ffprobe_path"`
	ProbeTimeout     time.Duration `json:"probe_timeout"`
	TranscodeTimeout time.Duration `json:"transcode_timeout"`
}

type StorageConfig struct {
	AccessKey     string        `json:"-"`
	SecretKey     string        `json:"-"`
	Region        string        `json:"region"`
	Endpoint      string        `json:"endpoint"`
	Bucket        string        `json:"bucket"`
	UploadTimeout time.Duration `json:"upload_timeout"`
}

type CloudConfig struct {
	APIKey  string `json:"-"`
	BaseURL string `json:"base_url"`

	TranscriptionModel string `json:"transcription_model"`
	ChatModel          string `json:"chat_model"`
	SpeechModel        string `json:"speech_model"`
	SpeechVoice        string `json:"speech_voice"`

	RecognitionLanguage string `json:"recognition_language"`
	SampleRateHertz     int    `json:"sample_rate_hertz"`
	TargetLanguage      string `json:"target_language"`
	SynthesisLanguage   string `json:"synthesis_language"`

	RequestTimeout time.Duration `json:"request_timeout"`
}

type PipelineConfig struct {
	// AudioDelivery selects how /video/audio responds: "url" uploads the
	// clip and returns its public address, "inline" streams the bytes back
	// and removes the local file.
	AudioDelivery string `json:"audio_delivery"`
}

// Delivery modes for extracted audio
const (
	DeliveryURL    = "url"
	DeliveryInline = "inline"
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Server settings
		ServerPort:   getEnv("SERVER_PORT", "3000"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		// Application paths
		LogDir:       getEnv("LOG_DIR", "/var/log/backend-server"),
		TempDir:      getEnv("TEMP_DIR", "/tmp/backend-server"),
		VideoRefPath: getEnv("VIDEO_REF_PATH", "./videoData.json"),

		// Application version
		Version: getEnv("VERSION", "1.0.0"),

		// Request and shutdown timeouts
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 5*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		// CORS Configuration
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},

		// Rate Limiting
		RateLimit: RateLimitConfig{
			Enabled:                getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute:      getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
			CloudRequestsPerSecond: getEnvAsFloat("CLOUD_REQUESTS_PER_SECOND", 5),
			CloudBurst:             getEnvAsInt("CLOUD_BURST", 10),
		},

		// Media transcoding
		Media: MediaConfig{
			FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath:      getEnv("FFPROBE_PATH", "ffprobe"),
			ProbeTimeout:     getEnvAsDuration("PROBE_TIMEOUT", 30*time.Second),
			TranscodeTimeout: getEnvAsDuration("TRANSCODE_TIMEOUT", 2*time.Minute),
		},

		// Object storage
		Storage: StorageConfig{
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
			Region:        getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:      getEnv("STORAGE_ENDPOINT", "https://storage.googleapis.com"),
			Bucket:        getEnv("STORAGE_BUCKET", "marcosargiottitask"),
			UploadTimeout: getEnvAsDuration("UPLOAD_TIMEOUT", 2*time.Minute),
		},

		// Remote AI services
		Cloud: CloudConfig{
			APIKey:              getEnv("CLOUD_API_KEY", ""),
			BaseURL:             getEnv("CLOUD_BASE_URL", ""),
			TranscriptionModel:  getEnv("CLOUD_TRANSCRIPTION_MODEL", "whisper-1"),
			ChatModel:           getEnv("CLOUD_CHAT_MODEL", "gpt-4o-mini"),
			SpeechModel:         getEnv("CLOUD_SPEECH_MODEL", "tts-1"),
			SpeechVoice:         getEnv("CLOUD_SPEECH_VOICE", "alloy"),
			RecognitionLanguage: getEnv("RECOGNITION_LANGUAGE", "en-US"),
			SampleRateHertz:     getEnvAsInt("SAMPLE_RATE_HERTZ", 16000),
			TargetLanguage:      getEnv("TARGET_LANGUAGE", "es"),
			SynthesisLanguage:   getEnv("SYNTHESIS_LANGUAGE", "es-ES"),
			RequestTimeout:      getEnvAsDuration("CLOUD_REQUEST_TIMEOUT", 2*time.Minute),
		},

		// Pipeline behavior
		Pipeline: PipelineConfig{
			AudioDelivery: getEnv("AUDIO_DELIVERY", DeliveryURL),
		},
	}

	// Environment-specific middleware defaults
	if cfg.Debug {
		cfg.Middleware = defaultDevConfig()
	} else {
		cfg.Middleware = defaultProdConfig()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if c.Pipeline.AudioDelivery != DeliveryURL && c.Pipeline.AudioDelivery != DeliveryInline {
		return fmt.Errorf("invalid audio delivery mode: %q", c.Pipeline.AudioDelivery)
	}
	if c.RateLimit.CloudRequestsPerSecond <= 0 {
		return fmt.Errorf("cloud requests per second must be positive")
	}
	return nil
}

// Default middleware configurations
func defaultDevConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableCORS:      true,
		EnableRateLimit: false, // Disabled for testing
		EnableCompress:  false, // Not needed for development
		EnableETag:      false, // Not needed for development
	}
}

func defaultProdConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableCORS:      true,
		EnableRateLimit: true,
		EnableCompress:  true,
		EnableETag:      true,
	}
}

// Environment helpers

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
