package ragchat

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
)

type EndpointSet struct {
	SetAPIKey         endpoint.Endpoint
	LoadKnowledgeBase endpoint.Endpoint
	Ask               endpoint.Endpoint
	Search            endpoint.Endpoint
	History           endpoint.Endpoint
	ClearHistory      endpoint.Endpoint
}

type SetAPIKeyRequest struct {
	Key string `json:"key"`
}

func SetAPIKeyEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(SetAPIKeyRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		err := svc.SetAPIKey(ctx, req.Key)
		return nil, err
	}
}

type LoadKnowledgeBaseRequest struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

func LoadKnowledgeBaseEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(LoadKnowledgeBaseRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.LoadKnowledgeBase(ctx, req.Name, req.Data)
	}
}

type AskRequest struct {
	Question string `json:"question"`
}

func AskEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(AskRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.Ask(ctx, req.Question)
	}
}

type SearchRequest struct {
	Query string `json:"query" form:"query"`
	K     int    `json:"k,omitempty" form:"k"`
}

func SearchEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(SearchRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.Search(ctx, req.Query, req.K)
	}
}

func HistoryEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		return svc.History(ctx)
	}
}

func ClearHistoryEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		err := svc.ClearHistory(ctx)
		return nil, err
	}
}
