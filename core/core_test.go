package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContent_Accessors(t *testing.T) {
	c := Content{
		Role: RoleAssistant,
		Parts: []Part{
			TextPart{Text: "Here "},
			FunctionCallPart{FunctionCall: FunctionCall{ID: "1", Name: "getProjects"}},
			TextPart{Text: "you go"},
			FunctionResponsePart{FunctionResponse: FunctionResponse{ID: "1", Name: "getProjects", Response: "ok"}},
		},
	}

	assert.Equal(t, "Here you go", c.Text())
	assert.Len(t, c.FunctionCalls(), 1)
	assert.Equal(t, "getProjects", c.FunctionCalls()[0].Name)
	assert.Len(t, c.FunctionResponses(), 1)
	assert.Equal(t, "ok", c.FunctionResponses()[0].Response)
}

func TestNewTextContent(t *testing.T) {
	c := NewTextContent(RoleUser, "Hi")
	assert.Equal(t, RoleUser, c.Role)
	assert.Equal(t, "Hi", c.Text())
	assert.Empty(t, c.FunctionCalls())
}
