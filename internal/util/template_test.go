package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("t", "Hi {{.Name | upper}}, {{default \"n/a\" .Age}}", map[string]any{"Name": "ada", "Age": ""})
	require.NoError(t, err)
	assert.Equal(t, "Hi ADA, n/a", out)
}

func TestRenderTemplate_NoMarkers(t *testing.T) {
	out, err := RenderTemplate("t", "plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestRenderTemplate_DoesNotEscape(t *testing.T) {
	out, err := RenderTemplate("t", "{{.}}", "I'm <here>")
	require.NoError(t, err)
	assert.Equal(t, "I'm <here>", out)
}

func TestRenderTemplate_Errors(t *testing.T) {
	_, err := RenderTemplate("t", "{{.Missing}}", map[string]any{})
	assert.Error(t, err)

	_, err = RenderTemplate("t", "{{.Broken", nil)
	assert.ErrorContains(t, err, "parse template t")
}
