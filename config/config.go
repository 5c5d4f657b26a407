// Package config loads the immutable process configuration from flags,
// environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/folio/provider"
	"github.com/spf13/viper"
)

// Configuration keys. Each key is bound to the environment variables listed in envBindings.
const (
	KeyAddr              = "addr"
	KeyLogLevel          = "log_level"
	KeyLogFormat         = "log_format"
	KeyDemoMode          = "demo_mode"
	KeyChatProvider      = "chat_provider"
	KeyOpenAIAPIKey      = "openai_api_key"
	KeyOpenAIModel       = "openai_model"
	KeyGroqAPIKey        = "groq_api_key"
	KeyGroqModel         = "groq_model"
	KeyAnthropicAPIKey   = "anthropic_api_key"
	KeyAnthropicModel    = "anthropic_model"
	KeyPersonaFile       = "persona_file"
	KeyGitHubToken       = "github_token"
	KeyGitHubRepoAPIURL  = "github_repo_api_url"
	KeyEmailJSServiceID  = "emailjs_service_id"
	KeyEmailJSTemplateID = "emailjs_template_id"
	KeyEmailJSPublicKey  = "emailjs_public_key"
	KeyDatabaseURL       = "database_url"
	KeyMaxDuration       = "max_duration"
	KeyMCPEnabled        = "mcp_enabled"
	KeyResumeFile        = "resume_file"
	KeyResumeKey         = "resume_artifact_key"
	KeyS3Bucket          = "artifact_s3_bucket"
	KeyS3Prefix          = "artifact_s3_prefix"
	KeyS3Region          = "artifact_s3_region"
	KeyS3Endpoint        = "artifact_s3_endpoint"
	KeyS3AccessKeyID     = "artifact_s3_access_key_id"
	KeyS3SecretKey       = "artifact_s3_secret_access_key"
)

var envBindings = map[string][]string{
	KeyAddr:              {"ADDR"},
	KeyLogLevel:          {"LOG_LEVEL"},
	KeyLogFormat:         {"LOG_FORMAT"},
	KeyDemoMode:          {"DEMO_MODE", "NEXT_PUBLIC_DEMO_MODE"},
	KeyChatProvider:      {"CHAT_PROVIDER"},
	KeyOpenAIAPIKey:      {"OPENAI_API_KEY"},
	KeyOpenAIModel:       {"OPENAI_MODEL"},
	KeyGroqAPIKey:        {"GROQ_API_KEY"},
	KeyGroqModel:         {"GROQ_MODEL"},
	KeyAnthropicAPIKey:   {"ANTHROPIC_API_KEY"},
	KeyAnthropicModel:    {"ANTHROPIC_MODEL"},
	KeyPersonaFile:       {"PERSONA_FILE"},
	KeyGitHubToken:       {"GITHUB_TOKEN"},
	KeyGitHubRepoAPIURL:  {"GITHUB_REPO_API_URL"},
	KeyEmailJSServiceID:  {"EMAILJS_SERVICE_ID"},
	KeyEmailJSTemplateID: {"EMAILJS_TEMPLATE_ID"},
	KeyEmailJSPublicKey:  {"EMAILJS_PUBLIC_KEY"},
	KeyDatabaseURL:       {"DATABASE_URL"},
	KeyMaxDuration:       {"MAX_DURATION"},
	KeyMCPEnabled:        {"MCP_ENABLED"},
	KeyResumeFile:        {"RESUME_FILE"},
	KeyResumeKey:         {"RESUME_ARTIFACT_KEY"},
	KeyS3Bucket:          {"ARTIFACT_S3_BUCKET"},
	KeyS3Prefix:          {"ARTIFACT_S3_PREFIX"},
	KeyS3Region:          {"ARTIFACT_S3_REGION", "AWS_REGION"},
	KeyS3Endpoint:        {"ARTIFACT_S3_ENDPOINT"},
	KeyS3AccessKeyID:     {"ARTIFACT_S3_ACCESS_KEY_ID"},
	KeyS3SecretKey:       {"ARTIFACT_S3_SECRET_ACCESS_KEY"},
}

// Config is the process configuration snapshot. It is read once at start-up.
type Config struct {
	Addr      string
	LogLevel  string
	LogFormat string

	DemoMode bool

	ChatProvider    string
	OpenAIAPIKey    string
	OpenAIModel     string
	GroqAPIKey      string
	GroqModel       string
	AnthropicAPIKey string
	AnthropicModel  string

	PersonaFile string

	GitHubToken      string
	GitHubRepoAPIURL string

	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string

	DatabaseURL string

	// MCPEnabled mounts the tool registry as an MCP endpoint at /mcp.
	MCPEnabled bool

	// ResumeFile is a local file served as the resume artifact.
	ResumeFile string
	ResumeKey  string
	Artifacts  ArtifactStorage

	MaxDuration time.Duration
}

// ArtifactStorage selects an S3-compatible bucket for downloadable files.
type ArtifactStorage struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// New returns a viper instance with defaults and environment bindings registered.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeyDemoMode, "false")
	v.SetDefault(KeyChatProvider, provider.PreferAuto)
	v.SetDefault(KeyMaxDuration, 30*time.Second)
	v.SetDefault(KeyMCPEnabled, "false")
	v.SetDefault(KeyResumeKey, "resume.pdf")

	for key, envs := range envBindings {
		// BindEnv only fails without a key.
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	return v
}

// Load reads and validates a Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:              v.GetString(KeyAddr),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         strings.ToLower(v.GetString(KeyLogFormat)),
		DemoMode:          isTrue(v.GetString(KeyDemoMode)),
		ChatProvider:      v.GetString(KeyChatProvider),
		OpenAIAPIKey:      v.GetString(KeyOpenAIAPIKey),
		OpenAIModel:       v.GetString(KeyOpenAIModel),
		GroqAPIKey:        v.GetString(KeyGroqAPIKey),
		GroqModel:         v.GetString(KeyGroqModel),
		AnthropicAPIKey:   v.GetString(KeyAnthropicAPIKey),
		AnthropicModel:    v.GetString(KeyAnthropicModel),
		PersonaFile:       v.GetString(KeyPersonaFile),
		GitHubToken:       v.GetString(KeyGitHubToken),
		GitHubRepoAPIURL:  v.GetString(KeyGitHubRepoAPIURL),
		EmailJSServiceID:  v.GetString(KeyEmailJSServiceID),
		EmailJSTemplateID: v.GetString(KeyEmailJSTemplateID),
		EmailJSPublicKey:  v.GetString(KeyEmailJSPublicKey),
		DatabaseURL:       v.GetString(KeyDatabaseURL),
		MCPEnabled:        isTrue(v.GetString(KeyMCPEnabled)),
		ResumeFile:        v.GetString(KeyResumeFile),
		ResumeKey:         v.GetString(KeyResumeKey),
		Artifacts: ArtifactStorage{
			Bucket:          v.GetString(KeyS3Bucket),
			Prefix:          v.GetString(KeyS3Prefix),
			Region:          v.GetString(KeyS3Region),
			Endpoint:        v.GetString(KeyS3Endpoint),
			AccessKeyID:     v.GetString(KeyS3AccessKeyID),
			SecretAccessKey: v.GetString(KeyS3SecretKey),
		},
		MaxDuration: v.GetDuration(KeyMaxDuration),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and the provider preference.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("log format %q must be json or text", c.LogFormat))
	}
	if c.ResumeKey == "" {
		errs = append(errs, errors.New("resume artifact key must not be empty"))
	}
	if c.Artifacts.AccessKeyID != "" && c.Artifacts.SecretAccessKey == "" {
		errs = append(errs, errors.New("artifact s3 secret access key is required with an access key id"))
	}
	if c.MaxDuration <= 0 {
		errs = append(errs, fmt.Errorf("max duration %s must be positive", c.MaxDuration))
	}
	if _, err := provider.Resolve(c.ProviderConfig()); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ProviderConfig extracts the model provider settings.
func (c Config) ProviderConfig() provider.Config {
	return provider.Config{
		Preference:      c.ChatProvider,
		OpenAIAPIKey:    c.OpenAIAPIKey,
		OpenAIModel:     c.OpenAIModel,
		GroqAPIKey:      c.GroqAPIKey,
		GroqModel:       c.GroqModel,
		AnthropicAPIKey: c.AnthropicAPIKey,
		AnthropicModel:  c.AnthropicModel,
	}
}

// EmailJSConfigured reports whether the EmailJS identity is complete.
func (c Config) EmailJSConfigured() bool {
	return c.EmailJSServiceID != "" && c.EmailJSTemplateID != "" && c.EmailJSPublicKey != ""
}

func isTrue(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
