package ragchat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/flarexio/ragchat/knowledge"
	"github.com/flarexio/ragchat/llm"
	"github.com/flarexio/ragchat/vector"
)

// Service defines the core logic of the retrieval chat assistant.
type Service interface {

	// Close gracefully shuts down the service and drops all sessions.
	Close() error

	// SetAPIKey stores the remote API credential for the calling session.
	SetAPIKey(ctx context.Context, key string) error

	// LoadKnowledgeBase parses a JSON document set, chunks it, and rebuilds
	// the session's index from scratch.
	LoadKnowledgeBase(ctx context.Context, name string, data []byte) (*KnowledgeBaseSummary, error)

	// Ask answers a question against the session's index and appends the
	// turn to the conversation window.
	Ask(ctx context.Context, question string) (*Answer, error)

	// Search returns the k most similar chunks for the given query.
	Search(ctx context.Context, query string, k ...int) ([]knowledge.Chunk, error)

	// History returns the conversation window, oldest turn first.
	History(ctx context.Context) ([]Turn, error)

	// ClearHistory empties the conversation window.
	ClearHistory(ctx context.Context) error
}

type ServiceMiddleware func(Service) Service

func NewService(ctx context.Context, cfg Config, vector vector.VectorDB, chat llm.Factory) (Service, error) {
	log := zap.L().With(
		zap.String("service", "ragchat"),
	)

	cfg.ApplyDefaults()

	splitter, err := knowledge.NewSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	return &service{
		sessions: make(map[string]*session),
		splitter: splitter,

		cfg:    cfg,
		vector: vector,
		chat:   chat,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

type service struct {
	sessions   map[string]*session
	sessionsMu sync.RWMutex

	splitter *knowledge.Splitter

	cfg    Config
	vector vector.VectorDB
	chat   llm.Factory
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// Session state is isolated per caller. The mutex is held exclusively during
// index rebuilds so a rebuild-in-progress cannot be queried.
type session struct {
	id         string
	apiKey     string
	chat       llm.Client
	collection vector.Collection
	history    *Window

	mu sync.Mutex
}

func (svc *service) session(ctx context.Context) *session {
	id, ok := ctx.Value(SessionID).(string)
	if !ok || id == "" {
		id = DefaultSession
	}

	svc.sessionsMu.RLock()
	sess, ok := svc.sessions[id]
	svc.sessionsMu.RUnlock()

	if ok {
		return sess
	}

	svc.sessionsMu.Lock()
	defer svc.sessionsMu.Unlock()

	if sess, ok := svc.sessions[id]; ok {
		return sess
	}

	sess = &session{
		id:      id,
		history: NewWindow(svc.cfg.Memory.Window),
	}

	svc.sessions[id] = sess
	return sess
}

func (svc *service) collectionName(sess *session) string {
	return svc.cfg.Vector.Collection + "-" + sess.id
}

func (svc *service) Close() error {
	log := svc.log.With(
		zap.String("action", "close"),
	)

	if svc.cancel != nil {
		svc.cancel()
		svc.cancel = nil
	}

	svc.sessionsMu.Lock()
	defer svc.sessionsMu.Unlock()

	for id, sess := range svc.sessions {
		log := log.With(
			zap.String("session_id", id),
		)

		if sess.collection == nil {
			continue
		}

		if err := svc.vector.Drop(svc.collectionName(sess)); err != nil {
			log.Error(err.Error())
			continue
		}

		log.Info("dropped session collection")
	}

	svc.sessions = make(map[string]*session)

	return nil
}

func (svc *service) SetAPIKey(ctx context.Context, key string) error {
	if key == "" {
		return ErrAPIKeyRequired
	}

	sess := svc.session(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.apiKey = key
	sess.chat = svc.chat(key)

	return nil
}

func (svc *service) LoadKnowledgeBase(ctx context.Context, name string, data []byte) (*KnowledgeBaseSummary, error) {
	sess := svc.session(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	entries, err := knowledge.Load(data)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, ErrEmptyKnowledgeBase
	}

	chunks := svc.splitter.SplitAll(entries)

	// Any previous index is discarded wholesale; there is no incremental
	// add or remove.
	collName := svc.collectionName(sess)
	sess.collection = nil

	if err := svc.vector.Drop(collName); err != nil {
		return nil, err
	}

	collection, err := svc.vector.Collection(collName, sess.apiKey)
	if err != nil {
		return nil, err
	}

	docs := make([]vector.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = ChunkToDocument(chunk)
	}

	if err := collection.AddDocuments(ctx, docs); err != nil {
		// A single failed embedding aborts the build; no partial index
		// is retained.
		svc.vector.Drop(collName)
		return nil, err
	}

	sess.collection = collection
	sess.history.Clear()

	return &KnowledgeBaseSummary{
		Name:    name,
		Entries: len(entries),
		Chunks:  len(chunks),
	}, nil
}

func (svc *service) Ask(ctx context.Context, question string) (*Answer, error) {
	sess := svc.session(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.chat == nil {
		return nil, ErrAPIKeyRequired
	}

	if sess.collection == nil {
		return nil, ErrKnowledgeBaseRequired
	}

	docs, err := sess.collection.Query(ctx, question, svc.cfg.Retrieval.K)
	if err != nil {
		return nil, err
	}

	chunks := make([]knowledge.Chunk, len(docs))
	contexts := make([]string, len(docs))
	for i, doc := range docs {
		chunk, err := DocumentToChunk(doc)
		if err != nil {
			return nil, err
		}

		chunks[i] = chunk
		contexts[i] = chunk.Text
	}

	turns := sess.history.Turns()
	exchanges := make([]llm.Exchange, len(turns))
	for i, turn := range turns {
		exchanges[i] = llm.Exchange{
			Question: turn.Question,
			Answer:   turn.Answer,
		}
	}

	messages := llm.BuildMessages(contexts, exchanges, question)

	// A remote failure must leave the conversation window untouched.
	text, err := sess.chat.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	sess.history.Append(Turn{
		Question: question,
		Answer:   text,
		Sources:  chunks,
		AskedAt:  time.Now(),
	})

	return &Answer{
		Text:    text,
		Sources: chunks,
	}, nil
}

func (svc *service) Search(ctx context.Context, query string, k ...int) ([]knowledge.Chunk, error) {
	sess := svc.session(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.collection == nil {
		return nil, ErrKnowledgeBaseRequired
	}

	n := svc.cfg.Retrieval.K
	if len(k) > 0 && k[0] > 0 {
		n = k[0]
	}

	docs, err := sess.collection.Query(ctx, query, n)
	if err != nil {
		return nil, err
	}

	chunks := make([]knowledge.Chunk, len(docs))
	for i, doc := range docs {
		chunk, err := DocumentToChunk(doc)
		if err != nil {
			return nil, err
		}

		chunks[i] = chunk
	}

	return chunks, nil
}

func (svc *service) History(ctx context.Context) ([]Turn, error) {
	sess := svc.session(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.history.Turns(), nil
}

func (svc *service) ClearHistory(ctx context.Context) error {
	sess := svc.session(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.history.Clear()
	return nil
}
