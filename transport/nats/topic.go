package nats

import (
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/ragchat"
)

func AddEndpoints(group micro.Group, endpoints ragchat.EndpointSet) {
	group.AddEndpoint("set_api_key", SetAPIKeyHandler(endpoints.SetAPIKey))
	group.AddEndpoint("load_knowledge_base", LoadKnowledgeBaseHandler(endpoints.LoadKnowledgeBase))
	group.AddEndpoint("ask", AskHandler(endpoints.Ask))
	group.AddEndpoint("search", SearchHandler(endpoints.Search))
	group.AddEndpoint("history", HistoryHandler(endpoints.History))
	group.AddEndpoint("clear_history", ClearHistoryHandler(endpoints.ClearHistory))
}
