package llm

import "strings"

const systemTemplate = `You are a helpful AI assistant that answers questions using the provided context.

Use the following context to answer the user's question. If the context doesn't contain relevant information, say so and provide general guidance when appropriate.

Maintain a friendly, professional tone and structure your responses clearly. When possible, reference specific information from the context to support your answers.

Context:
%s`

// Exchange is one prior question/answer pair carried into the prompt.
type Exchange struct {
	Question string
	Answer   string
}

// BuildMessages assembles the chat-completion prompt: a system message
// embedding the retrieved context, the recent conversation history in order,
// and the current question last.
func BuildMessages(contexts []string, history []Exchange, question string) []Message {
	var sb strings.Builder
	for i, text := range contexts {
		if i > 0 {
			sb.WriteString("\n\n---\n\n")
		}
		sb.WriteString(text)
	}

	system := strings.Replace(systemTemplate, "%s", sb.String(), 1)

	messages := make([]Message, 0, 2*len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: system})

	for _, exchange := range history {
		messages = append(messages,
			Message{Role: RoleUser, Content: exchange.Question},
			Message{Role: RoleAssistant, Content: exchange.Answer},
		)
	}

	return append(messages, Message{Role: RoleUser, Content: question})
}
