package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultTimezone is the display zone used when MARKTIME_TIMEZONE is unset.
const DefaultTimezone = "America/Bogota"

// ErrMissingTimezone is returned when the display zone cannot be loaded,
// usually because the system has no timezone database.
var ErrMissingTimezone = errors.New("timezone data unavailable")

// Config holds all marktime configuration.
type Config struct {
	Source   SourceConfig
	Engine   EngineConfig
	Output   OutputConfig
	LogLevel string `validate:"omitempty,oneof=debug info warn warning error"`
}

// SourceConfig names the fields read from structured event dumps.
type SourceConfig struct {
	MessageField   string
	TimestampField string
	GroupField     string
	NameField      string
}

// EngineConfig holds matching and timing settings.
type EngineConfig struct {
	Reference string `validate:"oneof=global grouped"`
	Match     string `validate:"oneof=all first"`
	Normalize string `validate:"oneof=none nfc"` // text folding before matching
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Timezone string `validate:"required"`
	Charset  string `validate:"oneof=utf-8 utf-8-bom"`
	Tee      bool   // also write rows to stdout
}

// Load reads configuration from environment variables with sensible defaults.
// Variables from a .env file in the working directory are loaded first but
// never override the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Source: SourceConfig{
			MessageField:   os.Getenv("MARKTIME_MESSAGE_FIELD"),
			TimestampField: os.Getenv("MARKTIME_TIMESTAMP_FIELD"),
			GroupField:     os.Getenv("MARKTIME_GROUP_FIELD"),
			NameField:      os.Getenv("MARKTIME_NAME_FIELD"),
		},
		Engine: EngineConfig{
			Reference: strings.ToLower(getenv("MARKTIME_REFERENCE", "global")),
			Match:     strings.ToLower(getenv("MARKTIME_MATCH", "all")),
			Normalize: strings.ToLower(getenv("MARKTIME_NORMALIZE", "none")),
		},
		Output: OutputConfig{
			Timezone: getenv("MARKTIME_TIMEZONE", DefaultTimezone),
			Charset:  strings.ToLower(getenv("MARKTIME_ENCODING", "utf-8")),
			Tee:      getenvBool("MARKTIME_TEE", false),
		},
		LogLevel: strings.ToLower(getenv("MARKTIME_LOG_LEVEL", "info")),
	}
}

// Extra returns the overridden field names in the connector Extra format.
func (s SourceConfig) Extra() map[string]string {
	pairs := []struct {
		key, val string
	}{
		{"message_field", s.MessageField},
		{"timestamp_field", s.TimestampField},
		{"group_field", s.GroupField},
		{"name_field", s.NameField},
	}

	var m map[string]string
	for _, p := range pairs {
		if p.val == "" {
			continue
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[p.key] = p.val
	}
	return m
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every setting and reports all invalid ones at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "oneof":
		return fmt.Sprintf("%s=%q must be one of [%s]", fe.Namespace(), fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
}

// Location loads the display zone. It fails with ErrMissingTimezone when the
// zone cannot be resolved.
func (o OutputConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: load timezone %q (install the tzdata package or set MARKTIME_TIMEZONE=UTC): %w: %v",
			o.Timezone, ErrMissingTimezone, err)
	}
	return loc, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
