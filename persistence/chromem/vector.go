package chromem

import (
	"context"

	"github.com/philippgille/chromem-go"

	"github.com/flarexio/ragchat/vector"
)

func NewChromemVectorDB(cfg vector.Config) (vector.VectorDB, error) {
	var db *chromem.DB
	if !cfg.Persistent {
		db = chromem.NewDB()
	} else {
		d, err := chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, err
		}

		db = d
	}

	return &chromemVectorDB{db, cfg}, nil
}

type chromemVectorDB struct {
	db  *chromem.DB
	cfg vector.Config
}

func (vdb *chromemVectorDB) Collection(name string, apiKey string) (vector.Collection, error) {
	normalized := true
	embed := chromem.NewEmbeddingFuncOpenAICompat(
		vdb.cfg.BaseURL, apiKey, vdb.cfg.Model, &normalized,
	)

	c, err := vdb.db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, err
	}

	return &collection{c}, nil
}

func (vdb *chromemVectorDB) Drop(name string) error {
	return vdb.db.DeleteCollection(name)
}

type collection struct {
	collection *chromem.Collection
}

func (c *collection) AddDocuments(ctx context.Context, docs []vector.Document) error {
	documents := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		documents[i] = chromem.Document{
			ID:        doc.ID,
			Metadata:  doc.Metadata,
			Embedding: doc.Embedding,
			Content:   doc.Content,
		}
	}

	// Concurrency of 1 keeps one embedding call in flight at a time; any
	// failure aborts the batch and the caller drops the collection.
	return c.collection.AddDocuments(ctx, documents, 1)
}

func (c *collection) FindDocument(ctx context.Context, id string) (vector.Document, error) {
	document, err := c.collection.GetByID(ctx, id)
	if err != nil {
		return vector.Document{}, err
	}

	return vector.Document{
		ID:        document.ID,
		Metadata:  document.Metadata,
		Embedding: document.Embedding,
		Content:   document.Content,
	}, nil
}

func (c *collection) Count() int {
	return c.collection.Count()
}

func (c *collection) Query(ctx context.Context, query string, k int) ([]vector.Document, error) {
	if k > c.collection.Count() {
		k = c.collection.Count()
	}

	if k == 0 {
		return []vector.Document{}, nil
	}

	results, err := c.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, err
	}

	docs := make([]vector.Document, len(results))
	for i, result := range results {
		docs[i] = vector.Document{
			ID:         result.ID,
			Metadata:   result.Metadata,
			Embedding:  result.Embedding,
			Content:    result.Content,
			Similarity: result.Similarity,
		}
	}

	return docs, nil
}
