package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSplitterValidation(t *testing.T) {
	assert := assert.New(t)

	_, err := NewSplitter(0, 0)
	assert.ErrorIs(err, ErrInvalidChunking)

	_, err = NewSplitter(10, 10)
	assert.ErrorIs(err, ErrInvalidChunking)

	_, err = NewSplitter(10, -1)
	assert.ErrorIs(err, ErrInvalidChunking)

	_, err = NewSplitter(10, 2)
	assert.NoError(err)
}

func TestSplitWindows(t *testing.T) {
	assert := assert.New(t)

	splitter, err := NewSplitter(10, 3)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	entry := Entry{
		ID:    "a",
		Title: "a",
		Body:  "abcdefghijklmnopqrstuvwxyz",
	}

	chunks := splitter.Split(entry)

	assert.Len(chunks, 4)
	assert.Equal("abcdefghij", chunks[0].Text)
	assert.Equal("hijklmnopq", chunks[1].Text)
	assert.Equal("opqrstuvwx", chunks[2].Text)
	assert.Equal("vwxyz", chunks[3].Text, "final partial window is kept")

	// Consecutive windows share exactly the configured overlap.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		tail := string(prev[len(prev)-3:])
		assert.True(strings.HasPrefix(chunks[i].Text, tail))
	}

	for i, chunk := range chunks {
		assert.Equal("a", chunk.EntryID)
		assert.Equal(i, chunk.Index)
	}
}

func TestSplitCoversBody(t *testing.T) {
	assert := assert.New(t)

	splitter, err := NewSplitter(7, 2)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	body := "0123456789abcdefghij"
	chunks := splitter.Split(Entry{ID: "x", Body: body})

	// Dropping each window's overlap prefix reconstructs the body exactly.
	var sb strings.Builder
	for i, chunk := range chunks {
		text := []rune(chunk.Text)
		if i > 0 {
			text = text[2:]
		}
		sb.WriteString(string(text))
	}

	assert.Equal(body, sb.String())
}

func TestSplitShortBody(t *testing.T) {
	assert := assert.New(t)

	splitter, err := NewSplitter(100, 10)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	chunks := splitter.Split(Entry{ID: "a", Body: "The sky is blue."})
	assert.Len(chunks, 1)
	assert.Equal("The sky is blue.", chunks[0].Text)

	assert.Empty(splitter.Split(Entry{ID: "b", Body: ""}))
}

func TestSplitDeterministic(t *testing.T) {
	assert := assert.New(t)

	splitter, err := NewSplitter(10, 3)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	entry := Entry{ID: "a", Body: strings.Repeat("repeat me ", 20)}

	first := splitter.Split(entry)
	second := splitter.Split(entry)

	assert.Equal(first, second)
}
