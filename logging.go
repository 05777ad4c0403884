package ragchat

import (
	"context"

	"go.uber.org/zap"

	"github.com/flarexio/ragchat/knowledge"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	log = log.With(
		zap.String("service", "ragchat"),
	)

	return func(next Service) Service {
		log.Info("service initialized")

		return &loggingMiddleware{
			log:  log,
			next: next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) sessionLog(ctx context.Context, log *zap.Logger) *zap.Logger {
	id, ok := ctx.Value(SessionID).(string)
	if ok && id != "" {
		return log.With(
			zap.String("session_id", id),
		)
	}

	return log
}

func (mw *loggingMiddleware) Close() error {
	log := mw.log.With(
		zap.String("action", "close"),
	)

	err := mw.next.Close()
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("service closed")
	return nil
}

func (mw *loggingMiddleware) SetAPIKey(ctx context.Context, key string) error {
	log := mw.sessionLog(ctx, mw.log.With(
		zap.String("action", "set_api_key"),
	))

	err := mw.next.SetAPIKey(ctx, key)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("api key set")
	return nil
}

func (mw *loggingMiddleware) LoadKnowledgeBase(ctx context.Context, name string, data []byte) (*KnowledgeBaseSummary, error) {
	log := mw.sessionLog(ctx, mw.log.With(
		zap.String("action", "load_knowledge_base"),
		zap.String("name", name),
		zap.Int("bytes", len(data)),
	))

	summary, err := mw.next.LoadKnowledgeBase(ctx, name, data)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("knowledge base loaded",
		zap.Int("entries", summary.Entries),
		zap.Int("chunks", summary.Chunks),
	)

	return summary, nil
}

func (mw *loggingMiddleware) Ask(ctx context.Context, question string) (*Answer, error) {
	log := mw.sessionLog(ctx, mw.log.With(
		zap.String("action", "ask"),
		zap.String("question", question),
	))

	answer, err := mw.next.Ask(ctx, question)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("question answered", zap.Int("sources", len(answer.Sources)))
	return answer, nil
}

func (mw *loggingMiddleware) Search(ctx context.Context, query string, k ...int) ([]knowledge.Chunk, error) {
	var n int
	if len(k) > 0 {
		n = k[0]
	}

	log := mw.sessionLog(ctx, mw.log.With(
		zap.String("action", "search"),
		zap.String("query", query),
	))

	if n > 0 {
		log = log.With(
			zap.Int("k", n),
		)
	}

	chunks, err := mw.next.Search(ctx, query, k...)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("chunks searched", zap.Int("count", len(chunks)))
	return chunks, nil
}

func (mw *loggingMiddleware) History(ctx context.Context) ([]Turn, error) {
	log := mw.sessionLog(ctx, mw.log.With(
		zap.String("action", "history"),
	))

	turns, err := mw.next.History(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("history listed", zap.Int("count", len(turns)))
	return turns, nil
}

func (mw *loggingMiddleware) ClearHistory(ctx context.Context) error {
	log := mw.sessionLog(ctx, mw.log.With(
		zap.String("action", "clear_history"),
	))

	err := mw.next.ClearHistory(ctx)
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("history cleared")
	return nil
}
