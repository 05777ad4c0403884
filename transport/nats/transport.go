package nats

import (
	"context"
	"encoding/json"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/ragchat"
)

func sessionContext(r micro.Request) context.Context {
	ctx := context.Background()

	sessionID := r.Headers().Get("session_id")
	if sessionID != "" {
		ctx = context.WithValue(ctx, ragchat.SessionID, sessionID)
	}

	return ctx
}

func SetAPIKeyHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		var req ragchat.SetAPIKeyRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		ctx := sessionContext(r)
		_, err := endpoint(ctx, req)
		if err != nil {
			r.Error("417", err.Error(), nil)
			return
		}

		r.Respond([]byte("OK"))
	}
}

func LoadKnowledgeBaseHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		var req ragchat.LoadKnowledgeBaseRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		ctx := sessionContext(r)
		resp, err := endpoint(ctx, req)
		if err != nil {
			r.Error("417", err.Error(), nil)
			return
		}

		summary, ok := resp.(*ragchat.KnowledgeBaseSummary)
		if !ok {
			r.Error("500", "invalid response type", nil)
			return
		}

		r.RespondJSON(summary)
	}
}

func AskHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		var req ragchat.AskRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		ctx := sessionContext(r)
		resp, err := endpoint(ctx, req)
		if err != nil {
			r.Error("417", err.Error(), nil)
			return
		}

		answer, ok := resp.(*ragchat.Answer)
		if !ok {
			r.Error("500", "invalid response type", nil)
			return
		}

		r.RespondJSON(answer)
	}
}

func SearchHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		var req ragchat.SearchRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		ctx := sessionContext(r)
		resp, err := endpoint(ctx, req)
		if err != nil {
			r.Error("417", err.Error(), nil)
			return
		}

		r.RespondJSON(&resp)
	}
}

func HistoryHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		ctx := sessionContext(r)

		resp, err := endpoint(ctx, nil)
		if err != nil {
			r.Error("417", err.Error(), nil)
			return
		}

		turns, ok := resp.([]ragchat.Turn)
		if !ok {
			r.Error("500", "invalid response type", nil)
			return
		}

		r.RespondJSON(&turns)
	}
}

func ClearHistoryHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		ctx := sessionContext(r)

		_, err := endpoint(ctx, nil)
		if err != nil {
			r.Error("417", err.Error(), nil)
			return
		}

		r.Respond([]byte("OK"))
	}
}
