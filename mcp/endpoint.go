package mcp

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flarexio/ragchat"
)

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      mcp.RequestId   `json:"id"`
	Method  mcp.MCPMethod   `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func errorResponse(id any, code int, message string) mcp.JSONRPCError {
	return mcp.JSONRPCError{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(id),
		Error: struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Data    any    `json:"data,omitempty"`
		}{
			Code:    code,
			Message: message,
		},
	}
}

type MCPEndpoint func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage

const MCPSERVER_INSTRUCTIONS string = `RAGChat answers questions over an uploaded JSON knowledge base, providing:

1. **Question Answering**: Conversational answers grounded in retrieved document chunks
2. **Semantic Search**: Find relevant chunks using natural language queries
3. **Source Citations**: Every answer lists the chunks it was grounded on

Available tools:
- ask_knowledge_base: Ask a question and get an answer with cited sources
- search_knowledge_base: Retrieve the most similar chunks for a query

A knowledge base must be uploaded to the assistant before either tool can answer.`

const (
	ToolAskKnowledgeBase    = "ask_knowledge_base"
	ToolSearchKnowledgeBase = "search_knowledge_base"
)

// Tools returns the tool definitions exposed by the assistant.
func Tools() []mcp.Tool {
	ask := mcp.NewTool(ToolAskKnowledgeBase,
		mcp.WithDescription("Ask a question against the uploaded knowledge base and receive an answer with cited source chunks."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer."),
		),
	)

	search := mcp.NewTool(ToolSearchKnowledgeBase,
		mcp.WithDescription("Retrieve the most similar knowledge base chunks for a query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query."),
		),
		mcp.WithNumber("k",
			mcp.Description("Number of chunks to retrieve."),
		),
	)

	return []mcp.Tool{ask, search}
}

func InitializeEndpoint(svc ragchat.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params mcp.InitializeParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		protocolVersion := mcp.LATEST_PROTOCOL_VERSION
		if clientVersion := params.ProtocolVersion; clientVersion != "" {
			if slices.Contains(mcp.ValidProtocolVersions, clientVersion) {
				protocolVersion = clientVersion
			}
		}

		result := &mcp.InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: mcp.ServerCapabilities{
				Tools: &struct {
					ListChanged bool `json:"listChanged,omitempty"`
				}{},
			},
			ServerInfo: mcp.Implementation{
				Name:    "ragchat",
				Version: "1.0.0",
			},
			Instructions: MCPSERVER_INSTRUCTIONS,
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func PingEndpoint(svc ragchat.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  struct{}{}, // empty response
		}
	}
}

func ListToolsEndpoint(svc ragchat.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		result := &mcp.ListToolsResult{
			Tools: Tools(),
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}

func CallToolEndpoint(svc ragchat.Service) MCPEndpoint {
	return func(ctx context.Context, req JSONRPCRequest) mcp.JSONRPCMessage {
		var params mcp.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, err.Error())
		}

		args, _ := params.Arguments.(map[string]any)

		var result *mcp.CallToolResult

		switch params.Name {
		case ToolAskKnowledgeBase:
			question, ok := args["question"].(string)
			if !ok || question == "" {
				return errorResponse(req.ID, mcp.INVALID_PARAMS, "question is required")
			}

			answer, err := svc.Ask(ctx, question)
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			bs, err := json.Marshal(answer)
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			result = mcp.NewToolResultText(string(bs))

		case ToolSearchKnowledgeBase:
			query, ok := args["query"].(string)
			if !ok || query == "" {
				return errorResponse(req.ID, mcp.INVALID_PARAMS, "query is required")
			}

			k := 0
			if n, ok := args["k"].(float64); ok {
				k = int(n)
			}

			chunks, err := svc.Search(ctx, query, k)
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			bs, err := json.Marshal(chunks)
			if err != nil {
				return errorResponse(req.ID, mcp.INTERNAL_ERROR, err.Error())
			}

			result = mcp.NewToolResultText(string(bs))

		default:
			return errorResponse(req.ID, mcp.METHOD_NOT_FOUND, "unknown tool: "+params.Name)
		}

		return mcp.JSONRPCResponse{
			JSONRPC: mcp.JSONRPC_VERSION,
			ID:      req.ID,
			Result:  result,
		}
	}
}
