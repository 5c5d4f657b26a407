// Package provider decides which upstream model serves chat requests.
//
// Resolve is a pure function over Config; Factory turns the resulting
// Selection into model.Model instances. Both are evaluated once per process.
package provider

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/folio/model"
	anthropicmodel "github.com/hupe1980/folio/model/anthropic"
	openaimodel "github.com/hupe1980/folio/model/openai"
)

// Kind identifies an upstream provider.
type Kind string

const (
	// KindOpenAI is the primary provider.
	KindOpenAI Kind = "openai"
	// KindGroq is the OpenAI-compatible alternate provider.
	KindGroq Kind = "groq"
	// KindAnthropic is only used when requested explicitly.
	KindAnthropic Kind = "anthropic"
)

// Model identifiers.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultGroqModel      = "llama-3.1-8b-instant"
	DefaultAnthropicModel = string(anthropicmodel.DefaultModel)
	// GroqFallbackModel is the single retry tier used after a Groq rate limit.
	GroqFallbackModel = "llama-3.2-1b-preview"
)

// Preference values accepted by Config.Preference.
const (
	PreferAuto = "auto"
)

// Config is the immutable provider configuration snapshot.
type Config struct {
	// Preference is "auto" (or empty), "openai", "groq" or "anthropic".
	Preference string

	OpenAIAPIKey string
	OpenAIModel  string

	GroqAPIKey string
	GroqModel  string

	AnthropicAPIKey string
	AnthropicModel  string
}

// Selection is the resolved provider choice.
type Selection struct {
	Kind  Kind
	Model string
	// FallbackModel is tried once after a rate-limited first attempt. Empty
	// means the provider never retries.
	FallbackModel string
}

// HasFallback reports whether a retry tier exists.
func (s Selection) HasFallback() bool { return s.FallbackModel != "" }

func (s Selection) String() string {
	return fmt.Sprintf("%s/%s", s.Kind, s.Model)
}

// Resolve derives the provider selection from cfg.
//
// In auto mode a Groq credential selects Groq, otherwise OpenAI is selected
// even without a credential so that its authentication error surfaces to the
// caller. Explicit preferences select their provider unconditionally.
func Resolve(cfg Config) (Selection, error) {
	pref := strings.ToLower(strings.TrimSpace(cfg.Preference))

	switch pref {
	case "", PreferAuto:
		if cfg.GroqAPIKey != "" {
			return groq(cfg), nil
		}
		return openAI(cfg), nil
	case string(KindOpenAI):
		return openAI(cfg), nil
	case string(KindGroq):
		return groq(cfg), nil
	case string(KindAnthropic):
		return Selection{Kind: KindAnthropic, Model: orDefault(cfg.AnthropicModel, DefaultAnthropicModel)}, nil
	default:
		return Selection{}, fmt.Errorf("unknown chat provider %q", cfg.Preference)
	}
}

func openAI(cfg Config) Selection {
	return Selection{Kind: KindOpenAI, Model: orDefault(cfg.OpenAIModel, DefaultOpenAIModel)}
}

func groq(cfg Config) Selection {
	return Selection{
		Kind:          KindGroq,
		Model:         orDefault(cfg.GroqModel, DefaultGroqModel),
		FallbackModel: GroqFallbackModel,
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Factory builds model.Model values for a given provider kind.
type Factory interface {
	NewModel(kind Kind, modelID string) (model.Model, error)
}

// SDKFactory builds real provider adapters from the configured credentials.
type SDKFactory struct {
	cfg Config
	// baseURLs overrides provider endpoints, used to point adapters at test servers.
	baseURLs map[Kind]string
	// maxRetries bounds SDK-level retries; folio's own fallback happens above.
	maxRetries int
}

// SDKFactoryOptions configures an SDKFactory.
type SDKFactoryOptions struct {
	BaseURLs   map[Kind]string
	MaxRetries int
}

// NewSDKFactory creates a Factory backed by the openai-go and anthropic SDKs.
func NewSDKFactory(cfg Config, optFns ...func(o *SDKFactoryOptions)) *SDKFactory {
	opts := SDKFactoryOptions{MaxRetries: 1}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SDKFactory{cfg: cfg, baseURLs: opts.BaseURLs, maxRetries: opts.MaxRetries}
}

// NewModel implements Factory.
func (f *SDKFactory) NewModel(kind Kind, modelID string) (model.Model, error) {
	switch kind {
	case KindOpenAI:
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			o.Model = modelID
			o.Provider = string(KindOpenAI)
			o.APIKey = f.cfg.OpenAIAPIKey
			o.BaseURL = f.baseURLs[KindOpenAI]
			o.MaxRetries = f.maxRetries
		}), nil
	case KindGroq:
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			o.Model = modelID
			o.Provider = string(KindGroq)
			o.APIKey = f.cfg.GroqAPIKey
			o.BaseURL = orDefault(f.baseURLs[KindGroq], openaimodel.GroqBaseURL)
			// Rate limits are handled by the fallback model, not by waiting.
			o.MaxRetries = 0
		}), nil
	case KindAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.Model = anthropic.Model(modelID)
			o.APIKey = f.cfg.AnthropicAPIKey
			o.BaseURL = f.baseURLs[KindAnthropic]
			o.MaxRetries = f.maxRetries
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", kind)
	}
}
