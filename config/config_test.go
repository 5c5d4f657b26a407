package config

import (
	"testing"
	"time"

	"github.com/hupe1980/folio/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.DemoMode)
	assert.Equal(t, provider.PreferAuto, cfg.ChatProvider)
	assert.Equal(t, 30*time.Second, cfg.MaxDuration)
	assert.False(t, cfg.EmailJSConfigured())
	assert.False(t, cfg.MCPEnabled)
	assert.Equal(t, "resume.pdf", cfg.ResumeKey)
	assert.Empty(t, cfg.Artifacts.Bucket)
}

func TestLoad_Artifacts(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARTIFACT_S3_BUCKET", "portfolio")
	t.Setenv("ARTIFACT_S3_PREFIX", "public")
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("ARTIFACT_S3_ACCESS_KEY_ID", "AKIA")
	t.Setenv("ARTIFACT_S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("MCP_ENABLED", "true")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.True(t, cfg.MCPEnabled)
	assert.Equal(t, ArtifactStorage{
		Bucket:          "portfolio",
		Prefix:          "public",
		Region:          "eu-central-1",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "secret",
	}, cfg.Artifacts)
}

func TestLoad_ArtifactsNeedSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARTIFACT_S3_ACCESS_KEY_ID", "AKIA")

	_, err := Load(New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret access key")
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk")
	t.Setenv("GROQ_MODEL", "llama-custom")
	t.Setenv("OPENAI_API_KEY", "sk")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("MAX_DURATION", "12s")
	t.Setenv("EMAILJS_SERVICE_ID", "svc")
	t.Setenv("EMAILJS_TEMPLATE_ID", "tpl")
	t.Setenv("EMAILJS_PUBLIC_KEY", "pub")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 12*time.Second, cfg.MaxDuration)
	assert.True(t, cfg.EmailJSConfigured())

	sel, err := provider.Resolve(cfg.ProviderConfig())
	require.NoError(t, err)
	assert.Equal(t, provider.KindGroq, sel.Kind)
	assert.Equal(t, "llama-custom", sel.Model)
}

func TestLoad_DemoMode(t *testing.T) {
	tests := []struct {
		env, value string
		want       bool
	}{
		{"DEMO_MODE", "true", true},
		{"NEXT_PUBLIC_DEMO_MODE", "true", true},
		{"DEMO_MODE", "TRUE", true},
		{"DEMO_MODE", "1", false},
		{"DEMO_MODE", "false", false},
	}
	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.env, tt.value)

			cfg, err := Load(New())
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.DemoMode)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHAT_PROVIDER", "mistral")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load(New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistral")
	assert.Contains(t, err.Error(), "xml")
}

func TestLoad_ExplicitOverride(t *testing.T) {
	clearEnv(t)
	v := New()
	v.Set(KeyDemoMode, "true")
	v.Set(KeyAddr, "127.0.0.1:9000")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
}
