package nats

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/ragchat"
	"github.com/flarexio/ragchat/knowledge"
)

func MakeEndpoints(nc *nats.Conn, prefix string) *ragchat.EndpointSet {
	return &ragchat.EndpointSet{
		SetAPIKey:         SetAPIKeyEndpoint(nc, prefix+".set_api_key"),
		LoadKnowledgeBase: LoadKnowledgeBaseEndpoint(nc, prefix+".load_knowledge_base"),
		Ask:               AskEndpoint(nc, prefix+".ask"),
		Search:            SearchEndpoint(nc, prefix+".search"),
		History:           HistoryEndpoint(nc, prefix+".history"),
		ClearHistory:      ClearHistoryEndpoint(nc, prefix+".clear_history"),
	}
}

func sessionHeader(ctx context.Context) nats.Header {
	header := make(nats.Header)

	sessionID, ok := ctx.Value(ragchat.SessionID).(string)
	if ok {
		header.Set("session_id", sessionID)
	}

	return header
}

func SetAPIKeyEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(ragchat.SetAPIKeyRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		msg := nats.NewMsg(topic)
		msg.Header = sessionHeader(ctx)
		msg.Data = data

		resp, err := nc.RequestMsg(msg, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		return string(resp.Data), nil
	}
}

func LoadKnowledgeBaseEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(ragchat.LoadKnowledgeBaseRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		msg := nats.NewMsg(topic)
		msg.Header = sessionHeader(ctx)
		msg.Data = data

		resp, err := nc.RequestMsg(msg, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		var summary ragchat.KnowledgeBaseSummary
		if err := json.Unmarshal(resp.Data, &summary); err != nil {
			return nil, err
		}

		return &summary, nil
	}
}

func AskEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(ragchat.AskRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		msg := nats.NewMsg(topic)
		msg.Header = sessionHeader(ctx)
		msg.Data = data

		resp, err := nc.RequestMsg(msg, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		var answer ragchat.Answer
		if err := json.Unmarshal(resp.Data, &answer); err != nil {
			return nil, err
		}

		return &answer, nil
	}
}

func SearchEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(ragchat.SearchRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		msg := nats.NewMsg(topic)
		msg.Header = sessionHeader(ctx)
		msg.Data = data

		resp, err := nc.RequestMsg(msg, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		var chunks []knowledge.Chunk
		if err := json.Unmarshal(resp.Data, &chunks); err != nil {
			return nil, err
		}

		return chunks, nil
	}
}

func HistoryEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		msg := nats.NewMsg(topic)
		msg.Header = sessionHeader(ctx)
		msg.Data = nil

		resp, err := nc.RequestMsg(msg, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		var turns []ragchat.Turn
		if err := json.Unmarshal(resp.Data, &turns); err != nil {
			return nil, err
		}

		return turns, nil
	}
}

func ClearHistoryEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		msg := nats.NewMsg(topic)
		msg.Header = sessionHeader(ctx)
		msg.Data = nil

		resp, err := nc.RequestMsg(msg, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := Error(resp); err != nil {
			return nil, err
		}

		return string(resp.Data), nil
	}
}

func Error(msg *nats.Msg) error {
	if msg == nil {
		return errors.New("nil message")
	}

	code := msg.Header.Get(micro.ErrorCodeHeader)
	if code == "" {
		return nil
	}

	description := msg.Header.Get(micro.ErrorHeader)
	if description == "" {
		description = "unknown error"
	}

	return errors.New(code + ":" + description)
}
