package vector

import "context"

type Config struct {
	Persistent bool   `yaml:"persistent"`
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	BaseURL    string `yaml:"baseURL"`
	Model      string `yaml:"model"`
}

// VectorDB manages embedding-backed document collections. The API key is
// passed per collection because credentials arrive at runtime (web form),
// not at startup.
type VectorDB interface {
	Collection(name string, apiKey string) (Collection, error)
	Drop(name string) error
}

type Collection interface {
	AddDocuments(ctx context.Context, docs []Document) error
	FindDocument(ctx context.Context, id string) (Document, error)
	Count() int
	Query(ctx context.Context, query string, k int) ([]Document, error)
}

type Document struct {
	ID         string            `json:"id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Content    string            `json:"content"`
	Embedding  []float32         `json:"embedding,omitempty"`
	Similarity float32           `json:"similarity,omitempty"`
}
