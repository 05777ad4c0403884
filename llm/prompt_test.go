package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessages(t *testing.T) {
	assert := assert.New(t)

	contexts := []string{
		"The sky is blue.",
		"Grass is green.",
	}

	history := []Exchange{
		{Question: "Is the sky blue?", Answer: "Yes, the sky is blue."},
	}

	messages := BuildMessages(contexts, history, "What color is grass?")

	assert.Len(messages, 4)

	assert.Equal(RoleSystem, messages[0].Role)
	assert.Contains(messages[0].Content, "The sky is blue.")
	assert.Contains(messages[0].Content, "Grass is green.")

	assert.Equal(RoleUser, messages[1].Role)
	assert.Equal("Is the sky blue?", messages[1].Content)

	assert.Equal(RoleAssistant, messages[2].Role)
	assert.Equal("Yes, the sky is blue.", messages[2].Content)

	assert.Equal(RoleUser, messages[3].Role)
	assert.Equal("What color is grass?", messages[3].Content)
}

func TestBuildMessagesNoHistory(t *testing.T) {
	assert := assert.New(t)

	messages := BuildMessages(nil, nil, "Hello?")

	assert.Len(messages, 2)
	assert.Equal(RoleSystem, messages[0].Role)
	assert.Equal("Hello?", messages[1].Content)
}
