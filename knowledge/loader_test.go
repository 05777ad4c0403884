package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMapping(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`{
		"a": "The sky is blue.",
		"b": "Grass is green.",
		"c": { "species": "gopher", "legs": 4 }
	}`)

	entries, err := Load(input)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(entries, 3)

	assert.Equal("a", entries[0].ID)
	assert.Equal("a", entries[0].Title)
	assert.Equal("The sky is blue.", entries[0].Body)

	assert.Equal("b", entries[1].ID)
	assert.Equal("Grass is green.", entries[1].Body)

	assert.Equal("legs: 4 | species: gopher", entries[2].Body)
}

func TestLoadSequence(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`[
		{ "id": "intro", "text": "Welcome." },
		{ "title": "Guide", "text": "Read this." },
		"A bare string element."
	]`)

	entries, err := Load(input)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(entries, 3)

	assert.Equal("0", entries[0].ID)
	assert.Equal("intro", entries[0].Title)
	assert.Equal("id: intro | text: Welcome.", entries[0].Body)

	assert.Equal("Guide", entries[1].Title)

	assert.Equal("document_2", entries[2].Title)
	assert.Equal("A bare string element.", entries[2].Body)
}

func TestLoadNestedValues(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`{
		"tool": {
			"name": "hammer",
			"tags": ["metal", "wood"],
			"specs": { "weight": 1.5 }
		}
	}`)

	entries, err := Load(input)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(entries, 1)
	assert.Equal("name: hammer | specs: weight: 1.5 | tags: metal, wood", entries[0].Body)
}

func TestLoadMalformed(t *testing.T) {
	assert := assert.New(t)

	_, err := Load([]byte(`{"a": "unterminated`))
	assert.ErrorIs(err, ErrMalformedDocument)

	_, err = Load([]byte(`"just a string"`))
	assert.ErrorIs(err, ErrMalformedDocument)

	_, err = Load([]byte(`42`))
	assert.ErrorIs(err, ErrMalformedDocument)
}

func TestLoadSkipsEmptyValues(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`{ "a": "kept", "b": null, "c": "" }`)

	entries, err := Load(input)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Len(entries, 1)
	assert.Equal("a", entries[0].ID)
}
