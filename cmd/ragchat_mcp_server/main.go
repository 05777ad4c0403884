package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/flarexio/ragchat"

	mcpE "github.com/flarexio/ragchat/mcp"
	natsT "github.com/flarexio/ragchat/transport/nats"
)

type StdioMCPServer interface {
	AddEndpoint(method mcp.MCPMethod, endpoint mcpE.MCPEndpoint) error
	Listen(ctx context.Context) error
}

func NewStdioMCPServer() StdioMCPServer {
	return &stdioMCPServer{
		endpoints: make(map[mcp.MCPMethod]mcpE.MCPEndpoint),
	}
}

type stdioMCPServer struct {
	endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint
}

func (s *stdioMCPServer) Listen(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)

	lines := make(chan string)
	errs := make(chan error, 1)

	go func(ctx context.Context, lines chan<- string, errs chan<- error) {
		defer close(lines)

		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}(ctx, lines, errs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err

		case line, ok := <-lines:
			if !ok {
				return nil
			}

			if line == "" {
				continue
			}

			var req mcpE.JSONRPCRequest
			if err := json.Unmarshal([]byte(line), &req); err != nil {
				continue
			}

			if req.ID.IsNil() {
				continue
			}

			var resp mcp.JSONRPCMessage

			endpoint, ok := s.endpoints[req.Method]
			if !ok {
				resp = mcp.JSONRPCError{
					JSONRPC: mcp.JSONRPC_VERSION,
					ID:      req.ID,
					Error: struct {
						Code    int    `json:"code"`
						Message string `json:"message"`
						Data    any    `json:"data,omitempty"`
					}{
						Code:    mcp.METHOD_NOT_FOUND,
						Message: "method not found",
					},
				}

				bs, err := json.Marshal(resp)
				if err != nil {
					continue
				}

				fmt.Fprintf(os.Stdout, "%s\n", bs)
				continue
			}

			resp = endpoint(ctx, req)

			bs, err := json.Marshal(resp)
			if err != nil {
				continue
			}

			fmt.Fprintf(os.Stdout, "%s\n", bs)
		}
	}
}

func (srv *stdioMCPServer) AddEndpoint(method mcp.MCPMethod, endpoint mcpE.MCPEndpoint) error {
	_, ok := srv.endpoints[method]
	if ok {
		return errors.New("endpoint already exists")
	}

	srv.endpoints[method] = endpoint
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "ragchat_mcp_server",
		Usage: "RAGChat MCP Server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "nats",
				Usage:   "NATS server URL",
				Value:   nats.DefaultURL,
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.StringFlag{
				Name:    "nats-creds",
				Usage:   "NATS user credentials file",
				Sources: cli.EnvVars("NATS_CREDS"),
			},
			&cli.StringFlag{
				Name:     "edge-id",
				Usage:    "Edge ID of the ragchat service to connect to",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "session-id",
				Usage: "Session ID for a dedicated conversation. If not specified, uses the default session",
			},
		},
		Action: run,
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	edgeID := cmd.String("edge-id")
	natsURL := cmd.String("nats")
	natsCreds := cmd.String("nats-creds")

	opts := []nats.Option{
		nats.Name("RAGChat MCP Server - " + edgeID),
	}

	if natsCreds != "" {
		opts = append(opts, nats.UserCredentials(natsCreds))
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer nc.Drain()

	topic := fmt.Sprintf("edges.%s.ragchat", edgeID)
	endpoints := natsT.MakeEndpoints(nc, topic)

	var svc ragchat.Service
	svc = ragchat.ProxyMiddleware(endpoints)(svc)

	sessionID := cmd.String("session-id")
	if sessionID != "" {
		ctx = context.WithValue(ctx, ragchat.SessionID, sessionID)
	}

	s := NewStdioMCPServer()
	s.AddEndpoint(mcp.MethodInitialize, mcpE.InitializeEndpoint(svc))
	s.AddEndpoint(mcp.MethodPing, mcpE.PingEndpoint(svc))
	s.AddEndpoint(mcp.MethodToolsList, mcpE.ListToolsEndpoint(svc))
	s.AddEndpoint(mcp.MethodToolsCall, mcpE.CallToolEndpoint(svc))

	go s.Listen(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	cancel()
	return nil
}
