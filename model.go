package ragchat

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flarexio/ragchat/knowledge"
	"github.com/flarexio/ragchat/vector"
)

var (
	ErrAPIKeyRequired        = errors.New("api key is required")
	ErrKnowledgeBaseRequired = errors.New("knowledge base is not loaded")
	ErrEmptyKnowledgeBase    = errors.New("knowledge base contains no documents")
	ErrInvalidChunkDocument  = errors.New("invalid chunk document")
)

type ContextKey string

const (
	SessionID ContextKey = "session_id"
)

// DefaultSession is used when the caller does not select a session.
const DefaultSession = "default"

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Memory    MemoryConfig    `yaml:"memory"`
	Vector    vector.Config   `yaml:"vector"`
}

type LLMConfig struct {
	BaseURL     string   `yaml:"baseURL"`
	Model       string   `yaml:"model"`
	Temperature float32  `yaml:"temperature"`
	Timeout     Duration `yaml:"timeout"`
}

type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

type RetrievalConfig struct {
	K int `yaml:"k"`
}

type MemoryConfig struct {
	Window int `yaml:"window"`
}

const (
	// Defaults target Gemini through its OpenAI-compatible surface.
	DefaultBaseURL        = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultChatModel      = "gemini-1.5-flash"
	DefaultEmbeddingModel = "text-embedding-004"
)

// ApplyDefaults fills unset configuration knobs with the reference values.
func (cfg *Config) ApplyDefaults() {
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = DefaultBaseURL
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultChatModel
	}

	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}

	if cfg.LLM.Timeout.Duration() == 0 {
		cfg.LLM.Timeout = Duration(60 * time.Second)
	}

	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 1000
	}

	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 100
	}

	if cfg.Retrieval.K == 0 {
		cfg.Retrieval.K = 4
	}

	if cfg.Memory.Window == 0 {
		cfg.Memory.Window = 5
	}

	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = "knowledge"
	}

	if cfg.Vector.BaseURL == "" {
		cfg.Vector.BaseURL = DefaultBaseURL
	}

	if cfg.Vector.Model == "" {
		cfg.Vector.Model = DefaultEmbeddingModel
	}
}

type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	str := d.Duration().String()
	return json.Marshal(str)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalYAML() ([]byte, error) {
	str := d.Duration().String()
	return yaml.Marshal(str)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

// Turn is one completed question/answer exchange with its cited chunks.
type Turn struct {
	Question string            `json:"question"`
	Answer   string            `json:"answer"`
	Sources  []knowledge.Chunk `json:"sources,omitempty"`
	AskedAt  time.Time         `json:"asked_at"`
}

// Answer is the result of a single Ask call.
type Answer struct {
	Text    string            `json:"text"`
	Sources []knowledge.Chunk `json:"sources,omitempty"`
}

// KnowledgeBaseSummary reports what an upload produced.
type KnowledgeBaseSummary struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
	Chunks  int    `json:"chunks"`
}

// Window is a fixed-capacity FIFO of conversation turns. Appending beyond
// capacity evicts the oldest turn.
type Window struct {
	capacity int
	turns    []Turn
}

func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 5
	}

	return &Window{
		capacity: capacity,
		turns:    make([]Turn, 0, capacity),
	}
}

func (w *Window) Append(turn Turn) {
	if len(w.turns) == w.capacity {
		copy(w.turns, w.turns[1:])
		w.turns = w.turns[:len(w.turns)-1]
	}

	w.turns = append(w.turns, turn)
}

// Turns returns the window contents oldest first.
func (w *Window) Turns() []Turn {
	turns := make([]Turn, len(w.turns))
	copy(turns, w.turns)
	return turns
}

func (w *Window) Len() int {
	return len(w.turns)
}

func (w *Window) Clear() {
	w.turns = w.turns[:0]
}

// ChunkToDocument maps a chunk into a vector store document. The full chunk
// rides along in metadata so retrieval results can be mapped back without a
// second lookup.
func ChunkToDocument(chunk knowledge.Chunk) vector.Document {
	metadata := map[string]string{
		"entry_id":    chunk.EntryID,
		"entry_title": chunk.EntryTitle,
	}

	if bs, err := json.Marshal(chunk); err == nil {
		metadata["chunk_json"] = string(bs)
	}

	return vector.Document{
		ID:       generateDocumentID(chunk),
		Content:  chunk.Text,
		Metadata: metadata,
	}
}

// DocumentToChunk restores the chunk carried in a document's metadata.
func DocumentToChunk(doc vector.Document) (knowledge.Chunk, error) {
	chunkJSON, ok := doc.Metadata["chunk_json"]
	if !ok {
		return knowledge.Chunk{}, ErrInvalidChunkDocument
	}

	var chunk knowledge.Chunk
	if err := json.Unmarshal([]byte(chunkJSON), &chunk); err != nil {
		return knowledge.Chunk{}, err
	}

	return chunk, nil
}

func generateDocumentID(chunk knowledge.Chunk) string {
	data := fmt.Sprintf("%s|%d|%s", chunk.EntryID, chunk.Index, chunk.Text)

	hash := sha256.Sum256([]byte(data))
	return "chunk_" + hex.EncodeToString(hash[:12])
}
