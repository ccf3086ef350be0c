package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel         OTelConfig
	Slack        SlackConfig
	Linear       LinearConfig
	PagerDuty    PagerDutyConfig
	Support      SupportConfig
	Dedup        DedupConfig
	Env          string
	Port         string
	CallTimeout  time.Duration // per external call; 0 leaves the transport default
	DrainTimeout time.Duration // how long shutdown waits for in-flight pipeline runs
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type SlackConfig struct {
	SigningSecret    string
	BotToken         string
	SupportBotToken  string // optional second workspace used for support-channel summaries
	SupportChannelID string
	APIURL           string // override for tests and proxies
}

type LinearConfig struct {
	APIURL     string
	AuthHeader string
	TeamID     string
}

type PagerDutyConfig struct {
	APIKey             string
	APIURL             string
	ScheduleID         string
	EscalationPolicyID string
	ServiceID          string
	FromEmail          string
}

type SupportConfig struct {
	DefaultAssigneeEmail string
	ExcludedEmails       *regexp.Regexp // nil when no patterns are configured
	GeneralChannelNames  []string
	LateHours            LateHoursConfig
	EscalationToken      string
	SupportChannelURL    string
}

// LateHoursConfig is a half-open [Start, End) window of local hours. Start > End wraps midnight.
type LateHoursConfig struct {
	Start    int
	End      int
	Location *time.Location
}

type DedupConfig struct {
	Backend   string // "memory" or "redis"
	TTL       time.Duration
	Capacity  int
	RedisURL  string
	KeyPrefix string
}

const (
	DedupBackendMemory = "memory"
	DedupBackendRedis  = "redis"

	DefaultEscalationToken = "escalate_to_pagerduty"
)

// Load loads configuration from environment variables.
// In development it also reads .env.server, falling back to .env.
// Secrets and identifiers default to empty strings; the calls that need them fail at runtime instead.
func Load() (Config, error) {
	if getEnv("RELAY_ENV", "development") == "development" {
		if err := godotenv.Load(".env.server"); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	excluded, err := compileExclusions(getEnvFields("EXCLUDED_EMAIL_PATTERNS"))
	if err != nil {
		return Config{}, err
	}

	loc, err := time.LoadLocation(getEnv("LATE_HOURS_TZ", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("LATE_HOURS_TZ: %w", err)
	}

	cfg := Config{
		Env:          getEnv("RELAY_ENV", "development"),
		Port:         getEnv("PORT", "8000"),
		CallTimeout:  getEnvDuration("EXTERNAL_CALL_TIMEOUT", 10*time.Second),
		DrainTimeout: getEnvDuration("DRAIN_TIMEOUT", 20*time.Second),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "support-relay"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Slack: SlackConfig{
			SigningSecret:    getEnv("SLACK_SIGNING_SECRET", ""),
			BotToken:         getEnv("SLACK_BOT_TOKEN", ""),
			SupportBotToken:  getEnv("SLACK_SUPPORT_BOT_TOKEN", ""),
			SupportChannelID: getEnv("SUPPORT_CHANNEL_ID", ""),
			APIURL:           getEnv("SLACK_API_URL", ""),
		},
		Linear: LinearConfig{
			APIURL:     getEnv("LINEAR_API_URL", "https://api.linear.app/graphql"),
			AuthHeader: getEnv("LINEAR_AUTH_HEADER", ""),
			TeamID:     getEnv("LINEAR_TEAM_ID", ""),
		},
		PagerDuty: PagerDutyConfig{
			APIKey:             getEnv("PAGERDUTY_API_KEY", ""),
			APIURL:             getEnv("PAGERDUTY_API_URL", ""),
			ScheduleID:         getEnv("PAGERDUTY_SCHEDULE_ID", ""),
			EscalationPolicyID: getEnv("PAGERDUTY_ESCALATION_POLICY_ID", ""),
			ServiceID:          getEnv("PAGERDUTY_SERVICE_ID", ""),
			FromEmail:          getEnv("PAGERDUTY_FROM_EMAIL", ""),
		},
		Support: SupportConfig{
			DefaultAssigneeEmail: getEnv("DEFAULT_ASSIGNEE_EMAIL", ""),
			ExcludedEmails:       excluded,
			GeneralChannelNames:  getEnvList("GENERAL_CHANNEL_NAMES", []string{"general"}),
			LateHours: LateHoursConfig{
				Start:    getEnvInt("LATE_HOURS_START", 2),
				End:      getEnvInt("LATE_HOURS_END", 7),
				Location: loc,
			},
			EscalationToken:   getEnv("ESCALATION_TOKEN", DefaultEscalationToken),
			SupportChannelURL: getEnv("SUPPORT_CHANNEL_URL", ""),
		},
		Dedup: DedupConfig{
			Backend:   getEnv("DEDUP_BACKEND", DedupBackendMemory),
			TTL:       getEnvDuration("DEDUP_TTL", 100*time.Second),
			Capacity:  getEnvInt("DEDUP_CAPACITY", 500),
			RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379/0"),
			KeyPrefix: getEnv("DEDUP_KEY_PREFIX", "support-relay:seen:"),
		},
	}

	if cfg.PagerDuty.FromEmail == "" {
		cfg.PagerDuty.FromEmail = cfg.Support.DefaultAssigneeEmail
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Dedup.Backend != DedupBackendMemory && c.Dedup.Backend != DedupBackendRedis {
		return fmt.Errorf("DEDUP_BACKEND must be %q or %q, got %q", DedupBackendMemory, DedupBackendRedis, c.Dedup.Backend)
	}
	if c.Dedup.Capacity <= 0 {
		return fmt.Errorf("DEDUP_CAPACITY must be positive")
	}
	if !validHour(c.Support.LateHours.Start) || !validHour(c.Support.LateHours.End) {
		return fmt.Errorf("LATE_HOURS_START and LATE_HOURS_END must be within 0-23")
	}
	if c.Support.EscalationToken == "" {
		return fmt.Errorf("ESCALATION_TOKEN cannot be empty")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c SlackConfig) VerifiesSignatures() bool {
	return c.SigningSecret != ""
}

// SupportToken returns the token used for support-channel summaries.
func (c SlackConfig) SupportToken() string {
	if c.SupportBotToken != "" {
		return c.SupportBotToken
	}
	return c.BotToken
}

// Contains reports whether hour falls inside the window.
func (c LateHoursConfig) Contains(hour int) bool {
	if c.Start == c.End {
		return false
	}
	if c.Start < c.End {
		return hour >= c.Start && hour < c.End
	}
	return hour >= c.Start || hour < c.End
}

func validHour(h int) bool {
	return h >= 0 && h <= 23
}

// compileExclusions joins whitespace-separated patterns into one alternation. No patterns means nothing is excluded.
func compileExclusions(patterns []string) (*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	re, err := regexp.Compile(strings.Join(patterns, "|"))
	if err != nil {
		return nil, fmt.Errorf("EXCLUDED_EMAIL_PATTERNS: %w", err)
	}
	return re, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvFields splits on whitespace. Used for regex lists, where commas belong to quantifiers like {1,3}.
func getEnvFields(key string) []string {
	return strings.Fields(os.Getenv(key))
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
