package ragchat

import (
	"context"
	"errors"

	"github.com/flarexio/ragchat/knowledge"
)

// ProxyMiddleware implements Service against a remote EndpointSet, so a
// client process can drive an assistant running elsewhere.
func ProxyMiddleware(endpoints *EndpointSet) ServiceMiddleware {
	return func(next Service) Service {
		return &proxyMiddleware{
			endpoints: endpoints,
		}
	}
}

type proxyMiddleware struct {
	endpoints *EndpointSet
}

func (mw *proxyMiddleware) Close() error {
	return errors.New("method not implemented")
}

func (mw *proxyMiddleware) SetAPIKey(ctx context.Context, key string) error {
	req := SetAPIKeyRequest{
		Key: key,
	}

	_, err := mw.endpoints.SetAPIKey(ctx, req)
	return err
}

func (mw *proxyMiddleware) LoadKnowledgeBase(ctx context.Context, name string, data []byte) (*KnowledgeBaseSummary, error) {
	req := LoadKnowledgeBaseRequest{
		Name: name,
		Data: data,
	}

	resp, err := mw.endpoints.LoadKnowledgeBase(ctx, req)
	if err != nil {
		return nil, err
	}

	summary, ok := resp.(*KnowledgeBaseSummary)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return summary, nil
}

func (mw *proxyMiddleware) Ask(ctx context.Context, question string) (*Answer, error) {
	req := AskRequest{
		Question: question,
	}

	resp, err := mw.endpoints.Ask(ctx, req)
	if err != nil {
		return nil, err
	}

	answer, ok := resp.(*Answer)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return answer, nil
}

func (mw *proxyMiddleware) Search(ctx context.Context, query string, k ...int) ([]knowledge.Chunk, error) {
	n := 0
	if len(k) > 0 {
		n = k[0]
	}

	req := SearchRequest{
		Query: query,
		K:     n,
	}

	resp, err := mw.endpoints.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	chunks, ok := resp.([]knowledge.Chunk)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return chunks, nil
}

func (mw *proxyMiddleware) History(ctx context.Context) ([]Turn, error) {
	resp, err := mw.endpoints.History(ctx, nil)
	if err != nil {
		return nil, err
	}

	turns, ok := resp.([]Turn)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return turns, nil
}

func (mw *proxyMiddleware) ClearHistory(ctx context.Context) error {
	_, err := mw.endpoints.ClearHistory(ctx, nil)
	return err
}
