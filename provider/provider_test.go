package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Selection
	}{
		{
			name: "groq key selects groq default",
			cfg:  Config{GroqAPIKey: "g", OpenAIAPIKey: "o"},
			want: Selection{Kind: KindGroq, Model: "llama-3.1-8b-instant", FallbackModel: "llama-3.2-1b-preview"},
		},
		{
			name: "groq model override",
			cfg:  Config{GroqAPIKey: "g", GroqModel: "llama-3.3-70b-versatile"},
			want: Selection{Kind: KindGroq, Model: "llama-3.3-70b-versatile", FallbackModel: GroqFallbackModel},
		},
		{
			name: "openai when only openai key",
			cfg:  Config{OpenAIAPIKey: "o"},
			want: Selection{Kind: KindOpenAI, Model: "gpt-4o-mini"},
		},
		{
			name: "openai model override",
			cfg:  Config{OpenAIAPIKey: "o", OpenAIModel: "gpt-4.1"},
			want: Selection{Kind: KindOpenAI, Model: "gpt-4.1"},
		},
		{
			name: "no credentials still selects openai",
			cfg:  Config{},
			want: Selection{Kind: KindOpenAI, Model: DefaultOpenAIModel},
		},
		{
			name: "blank groq model falls back to default",
			cfg:  Config{Preference: "auto", GroqAPIKey: "g", GroqModel: "  "},
			want: Selection{Kind: KindGroq, Model: DefaultGroqModel, FallbackModel: GroqFallbackModel},
		},
		{
			name: "explicit openai ignores groq key",
			cfg:  Config{Preference: "OpenAI", GroqAPIKey: "g"},
			want: Selection{Kind: KindOpenAI, Model: DefaultOpenAIModel},
		},
		{
			name: "explicit anthropic",
			cfg:  Config{Preference: "anthropic"},
			want: Selection{Kind: KindAnthropic, Model: DefaultAnthropicModel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind == KindGroq, got.HasFallback())
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	cfg := Config{GroqAPIKey: "g"}
	first, err := Resolve(cfg)
	require.NoError(t, err)
	second, err := Resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_UnknownPreference(t *testing.T) {
	_, err := Resolve(Config{Preference: "mistral"})
	assert.ErrorContains(t, err, "unknown chat provider")
}

func TestSelection_String(t *testing.T) {
	assert.Equal(t, "groq/llama-3.1-8b-instant", Selection{Kind: KindGroq, Model: DefaultGroqModel}.String())
}

func TestSDKFactory(t *testing.T) {
	f := NewSDKFactory(Config{OpenAIAPIKey: "o", GroqAPIKey: "g", AnthropicAPIKey: "a"})

	m, err := f.NewModel(KindGroq, GroqFallbackModel)
	require.NoError(t, err)
	assert.Equal(t, "groq", m.Info().Provider)
	assert.Equal(t, GroqFallbackModel, m.Info().Name)

	m, err = f.NewModel(KindOpenAI, DefaultOpenAIModel)
	require.NoError(t, err)
	assert.Equal(t, "openai", m.Info().Provider)

	m, err = f.NewModel(KindAnthropic, DefaultAnthropicModel)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.Info().Provider)
	assert.Equal(t, DefaultAnthropicModel, m.Info().Name)

	_, err = f.NewModel(Kind("other"), "x")
	assert.Error(t, err)
}
