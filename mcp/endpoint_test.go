package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/flarexio/ragchat"
	"github.com/flarexio/ragchat/knowledge"
)

type fakeService struct {
	ragchat.Service
}

func (svc *fakeService) Ask(ctx context.Context, question string) (*ragchat.Answer, error) {
	if question != "What color is the sky?" {
		return nil, errors.New("knowledge base is not loaded")
	}

	return &ragchat.Answer{
		Text: "The sky is blue.",
		Sources: []knowledge.Chunk{
			{ID: "a:0", EntryID: "a", EntryTitle: "a", Text: "The sky is blue."},
		},
	}, nil
}

func (svc *fakeService) Search(ctx context.Context, query string, k ...int) ([]knowledge.Chunk, error) {
	return []knowledge.Chunk{
		{ID: "a:0", EntryID: "a", EntryTitle: "a", Text: "The sky is blue."},
	}, nil
}

func TestUnmarshalInitializeRequest(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`{
	  "jsonrpc": "2.0",
	  "id": 1,
	  "method": "initialize",
	  "params": {
	    "protocolVersion": "2024-11-05",
	    "clientInfo": {
	      "name": "ExampleClient",
	      "version": "1.0.0"
	    }
	  }
	}`)

	var req JSONRPCRequest
	if err := json.Unmarshal(input, &req); err != nil {
		assert.Fail(err.Error())
		return
	}

	var params mcp.InitializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(mcp.JSONRPC_VERSION, req.JSONRPC)
	assert.Equal(mcp.NewRequestId(int64(1)), req.ID)
	assert.Equal(mcp.MethodInitialize, req.Method)
	assert.Equal("2024-11-05", params.ProtocolVersion)
}

func TestListToolsEndpoint(t *testing.T) {
	assert := assert.New(t)

	endpoint := ListToolsEndpoint(&fakeService{})

	req := JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(1)),
		Method:  mcp.MethodToolsList,
	}

	resp := endpoint(context.Background(), req)

	response, ok := resp.(mcp.JSONRPCResponse)
	if !ok {
		assert.Fail("invalid response type")
		return
	}

	result, ok := response.Result.(*mcp.ListToolsResult)
	if !ok {
		assert.Fail("invalid result type")
		return
	}

	assert.Len(result.Tools, 2)
	assert.Equal(ToolAskKnowledgeBase, result.Tools[0].Name)
	assert.Equal(ToolSearchKnowledgeBase, result.Tools[1].Name)
}

func TestCallToolEndpointAsk(t *testing.T) {
	assert := assert.New(t)

	endpoint := CallToolEndpoint(&fakeService{})

	params, _ := json.Marshal(map[string]any{
		"name": ToolAskKnowledgeBase,
		"arguments": map[string]any{
			"question": "What color is the sky?",
		},
	})

	req := JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(2)),
		Method:  mcp.MethodToolsCall,
		Params:  params,
	}

	resp := endpoint(context.Background(), req)

	response, ok := resp.(mcp.JSONRPCResponse)
	if !ok {
		assert.Fail("invalid response type")
		return
	}

	result, ok := response.Result.(*mcp.CallToolResult)
	if !ok {
		assert.Fail("invalid result type")
		return
	}

	assert.False(result.IsError)

	content, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		assert.Fail("invalid content type")
		return
	}

	var answer ragchat.Answer
	if err := json.Unmarshal([]byte(content.Text), &answer); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal("The sky is blue.", answer.Text)
	assert.Len(answer.Sources, 1)
	assert.Equal("a", answer.Sources[0].EntryID)
}

func TestCallToolEndpointUnknownTool(t *testing.T) {
	assert := assert.New(t)

	endpoint := CallToolEndpoint(&fakeService{})

	params, _ := json.Marshal(map[string]any{
		"name":      "unknown_tool",
		"arguments": map[string]any{},
	})

	req := JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(3)),
		Method:  mcp.MethodToolsCall,
		Params:  params,
	}

	resp := endpoint(context.Background(), req)

	_, ok := resp.(mcp.JSONRPCError)
	assert.True(ok, "unknown tools are rejected")
}

func TestCallToolEndpointMissingQuestion(t *testing.T) {
	assert := assert.New(t)

	endpoint := CallToolEndpoint(&fakeService{})

	params, _ := json.Marshal(map[string]any{
		"name":      ToolAskKnowledgeBase,
		"arguments": map[string]any{},
	})

	req := JSONRPCRequest{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      mcp.NewRequestId(int64(4)),
		Method:  mcp.MethodToolsCall,
		Params:  params,
	}

	resp := endpoint(context.Background(), req)

	_, ok := resp.(mcp.JSONRPCError)
	assert.True(ok)
}
