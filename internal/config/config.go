// Package config loads service configuration from the environment.
//
// Variables may also come from a .env file in the working directory; real
// environment variables take precedence over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ironsheep/overlay-translate-mcp/internal/overlay"
)

// Config holds every tunable of the overlay service.
type Config struct {
	// Layout geometry
	OutputWidth    int
	OutputHeight   int
	TargetAspect   float64
	MaxLineLength  int
	LineHeight     float64
	DedupThreshold float64
	MinMatchScore  float64

	// Rendering
	FontPath        string
	BackgroundColor string
	TextColor       string
	StrokeColor     string
	StrokeWidth     float64
	Composite       bool

	// OCR
	OCRLanguage string
	OCRUpscale  float64

	// Translation model (OpenAI compatible, LM Studio by default)
	LLMBaseURL   string
	LLMAPIKey    string
	LLMModel     string
	LLMMaxTokens int
	LLMTimeout   time.Duration

	// Translation cache; empty RedisURL disables it
	RedisURL string
	CacheTTL time.Duration

	// HTTP endpoint
	HTTPAddr string

	LogLevel string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables, applying defaults for
// unset ones, and validates it.
func FromEnv() (*Config, error) {
	aspect, err := parseAspect(getEnvOrDefault("OVERLAY_TARGET_ASPECT", "30/17"))
	if err != nil {
		return nil, fmt.Errorf("OVERLAY_TARGET_ASPECT: %w", err)
	}

	cfg := &Config{
		OutputWidth:    getEnvAsIntOrDefault("OVERLAY_OUTPUT_WIDTH", overlay.DefaultOutputWidth),
		OutputHeight:   getEnvAsIntOrDefault("OVERLAY_OUTPUT_HEIGHT", overlay.DefaultOutputHeight),
		TargetAspect:   aspect,
		MaxLineLength:  getEnvAsIntOrDefault("OVERLAY_MAX_LINE_LENGTH", overlay.DefaultMaxLineLength),
		LineHeight:     getEnvAsFloatOrDefault("OVERLAY_LINE_HEIGHT", overlay.DefaultLineHeight),
		DedupThreshold: getEnvAsFloatOrDefault("OVERLAY_DEDUP_THRESHOLD", overlay.DefaultDedupThreshold),
		MinMatchScore:  getEnvAsFloatOrDefault("OVERLAY_MIN_MATCH_SCORE", 0),

		FontPath:        getEnvOrDefault("OVERLAY_FONT_PATH", ""),
		BackgroundColor: getEnvOrDefault("OVERLAY_BACKGROUND_COLOR", "#000000de"),
		TextColor:       getEnvOrDefault("OVERLAY_TEXT_COLOR", "#00ffff"),
		StrokeColor:     getEnvOrDefault("OVERLAY_STROKE_COLOR", "#000000"),
		StrokeWidth:     getEnvAsFloatOrDefault("OVERLAY_STROKE_WIDTH", 12),
		Composite:       getEnvAsBoolOrDefault("OVERLAY_COMPOSITE", false),

		OCRLanguage: getEnvOrDefault("OVERLAY_OCR_LANGUAGE", "jpn+eng"),
		OCRUpscale:  getEnvAsFloatOrDefault("OVERLAY_OCR_UPSCALE", 1.0),

		LLMBaseURL:   getEnvOrDefault("LLM_BASE_URL", "http://localhost:1234/v1"),
		LLMAPIKey:    getEnvOrDefault("LLM_API_KEY", "lm-studio"),
		LLMModel:     getEnvOrDefault("LLM_MODEL", "huihui-minicpm-v-4_5-abliterated"),
		LLMMaxTokens: getEnvAsIntOrDefault("LLM_MAX_TOKENS", 2000),
		LLMTimeout:   getEnvAsDurationOrDefault("LLM_TIMEOUT", 2*time.Minute),

		RedisURL: getEnvOrDefault("REDIS_URL", ""),
		CacheTTL: getEnvAsDurationOrDefault("OVERLAY_CACHE_TTL", 24*time.Hour),

		HTTPAddr: getEnvOrDefault("OVERLAY_HTTP_ADDR", ":4404"),

		LogLevel: getEnvOrDefault("OVERLAY_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Layout returns the engine geometry described by c.
func (c *Config) Layout() overlay.Config {
	lc := overlay.DefaultConfig()
	lc.OutputWidth = c.OutputWidth
	lc.OutputHeight = c.OutputHeight
	lc.TargetAspect = c.TargetAspect
	lc.MaxLineLength = c.MaxLineLength
	lc.LineHeight = c.LineHeight
	lc.DedupThreshold = c.DedupThreshold
	lc.MinMatchScore = c.MinMatchScore
	lc.StartY = float64(c.OutputHeight) - 100
	return lc
}

// Validate checks c for values the service cannot run with.
func (c *Config) Validate() error {
	if err := c.Layout().Validate(); err != nil {
		return err
	}
	if c.StrokeWidth < 0 {
		return fmt.Errorf("OVERLAY_STROKE_WIDTH must not be negative, got %v", c.StrokeWidth)
	}
	if c.OCRUpscale < 1 || c.OCRUpscale > 8 {
		return fmt.Errorf("OVERLAY_OCR_UPSCALE must be between 1 and 8, got %v", c.OCRUpscale)
	}
	if c.LLMModel == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	if c.LLMMaxTokens < 1 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.LLMMaxTokens)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("OVERLAY_CACHE_TTL must be positive, got %v", c.CacheTTL)
	}
	return nil
}

// parseAspect accepts "W/H" or a decimal ratio.
func parseAspect(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		w, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid aspect %q: %w", s, err)
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid aspect %q: %w", s, err)
		}
		if h == 0 {
			return 0, fmt.Errorf("invalid aspect %q: zero height", s)
		}
		return w / h, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid aspect %q: %w", s, err)
	}
	return v, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
