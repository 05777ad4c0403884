package ragchat

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/flarexio/ragchat/knowledge"
)

func TestConfigYAMLUnmarshal(t *testing.T) {
	assert := assert.New(t)

	input := `llm:
  model: gemini-1.5-flash
  temperature: 0.2
  timeout: 45s
chunking:
  size: 500
  overlap: 50
retrieval:
  k: 6
memory:
  window: 3
vector:
  persistent: false
  collection: knowledge`

	var cfg Config
	if err := yaml.Unmarshal([]byte(input), &cfg); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal("gemini-1.5-flash", cfg.LLM.Model)
	assert.Equal(float32(0.2), cfg.LLM.Temperature)
	assert.Equal(45*time.Second, cfg.LLM.Timeout.Duration())
	assert.Equal(500, cfg.Chunking.Size)
	assert.Equal(50, cfg.Chunking.Overlap)
	assert.Equal(6, cfg.Retrieval.K)
	assert.Equal(3, cfg.Memory.Window)
	assert.Equal("knowledge", cfg.Vector.Collection)
}

func TestConfigDefaults(t *testing.T) {
	assert := assert.New(t)

	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(DefaultChatModel, cfg.LLM.Model)
	assert.Equal(float32(0.7), cfg.LLM.Temperature)
	assert.Equal(1000, cfg.Chunking.Size)
	assert.Equal(100, cfg.Chunking.Overlap)
	assert.Equal(4, cfg.Retrieval.K)
	assert.Equal(5, cfg.Memory.Window)
	assert.Equal(DefaultEmbeddingModel, cfg.Vector.Model)
}

func TestWindowFIFOEviction(t *testing.T) {
	assert := assert.New(t)

	window := NewWindow(3)

	for i := 0; i < 5; i++ {
		window.Append(Turn{Question: "q" + strconv.Itoa(i)})
	}

	assert.Equal(3, window.Len())

	turns := window.Turns()
	assert.Equal("q2", turns[0].Question, "oldest turns evicted first")
	assert.Equal("q3", turns[1].Question)
	assert.Equal("q4", turns[2].Question)

	window.Clear()
	assert.Equal(0, window.Len())
}

func TestChunkDocumentRoundTrip(t *testing.T) {
	assert := assert.New(t)

	chunk := knowledge.Chunk{
		ID:         "a:0",
		EntryID:    "a",
		EntryTitle: "a",
		Index:      0,
		Text:       "The sky is blue.",
	}

	doc := ChunkToDocument(chunk)

	assert.Equal("The sky is blue.", doc.Content)
	assert.Equal("a", doc.Metadata["entry_id"])
	assert.NotEmpty(doc.ID)

	restored, err := DocumentToChunk(doc)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(chunk, restored)

	// Identical chunks map to identical document IDs, so rebuilds are stable.
	assert.Equal(doc.ID, ChunkToDocument(chunk).ID)
}
