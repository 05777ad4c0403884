package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/flarexio/ragchat"
	"github.com/flarexio/ragchat/llm"
	"github.com/flarexio/ragchat/persistence/chromem"

	mcpE "github.com/flarexio/ragchat/mcp"
	httpT "github.com/flarexio/ragchat/transport/http"
	natsT "github.com/flarexio/ragchat/transport/nats"
)

func main() {
	cmd := &cli.Command{
		Name:  "ragchat",
		Usage: "Conversational retrieval over JSON knowledge bases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Path to the ragchat working directory",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Default API key for the embedding and chat endpoints",
				Sources: cli.EnvVars("GEMINI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "nats",
				Usage:   "NATS server URL",
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.StringFlag{
				Name:    "edge-id",
				Usage:   "Edge ID used in the NATS topic",
				Sources: cli.EnvVars("EDGE_ID"),
			},
			&cli.BoolFlag{
				Name:  "http",
				Usage: "Enable HTTP transport",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "HTTP server address",
				Value: ":8080",
			},
		},
		Action: run,
	}

	godotenv.Load()

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = filepath.Join(homeDir, ".flarex", "ragchat")
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	var cfg ragchat.Config

	f, err := os.Open(filepath.Join(path, "config.yaml"))
	if err == nil {
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return err
		}
	}

	cfg.ApplyDefaults()

	if cfg.Vector.Persistent {
		cfg.Vector.Path = filepath.Join(path, "vectors")
	}

	vector, err := chromem.NewChromemVectorDB(cfg.Vector)
	if err != nil {
		return err
	}

	chat := llm.NewOpenAIFactory(llm.Options{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout.Duration(),
	})

	svc, err := ragchat.NewService(ctx, cfg, vector, chat)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc = ragchat.LoggingMiddleware(log)(svc)

	if apiKey := cmd.String("api-key"); apiKey != "" {
		if err := svc.SetAPIKey(ctx, apiKey); err != nil {
			return err
		}
	}

	endpoints := ragchat.EndpointSet{
		SetAPIKey:         ragchat.SetAPIKeyEndpoint(svc),
		LoadKnowledgeBase: ragchat.LoadKnowledgeBaseEndpoint(svc),
		Ask:               ragchat.AskEndpoint(svc),
		Search:            ragchat.SearchEndpoint(svc),
		History:           ragchat.HistoryEndpoint(svc),
		ClearHistory:      ragchat.ClearHistoryEndpoint(svc),
	}

	// Add NATS Transport
	if natsURL := cmd.String("nats"); natsURL != "" {
		edgeID := cmd.String("edge-id")
		natsCreds := filepath.Join(path, "user.creds")

		opts := []nats.Option{
			nats.Name("RAGChat Server - " + edgeID),
		}

		if _, err := os.Stat(natsCreds); err == nil {
			opts = append(opts, nats.UserCredentials(natsCreds))
		}

		nc, err := nats.Connect(natsURL, opts...)
		if err != nil {
			return err
		}
		defer nc.Drain()

		srv, err := micro.AddService(nc, micro.Config{
			Name:    "ragchat",
			Version: "1.0.0",
		})

		if err != nil {
			return err
		}
		defer srv.Stop()

		topic := "edges." + edgeID + ".ragchat"

		root := srv.AddGroup(topic)
		natsT.AddEndpoints(root, endpoints)
	}

	httpEnabled := cmd.Bool("http")
	if httpEnabled {
		r := gin.Default()
		httpT.AddRouters(r, endpoints)

		endpoints := make(map[mcp.MCPMethod]mcpE.MCPEndpoint)
		endpoints[mcp.MethodInitialize] = mcpE.InitializeEndpoint(svc)
		endpoints[mcp.MethodPing] = mcpE.PingEndpoint(svc)
		endpoints[mcp.MethodToolsList] = mcpE.ListToolsEndpoint(svc)
		endpoints[mcp.MethodToolsCall] = mcpE.CallToolEndpoint(svc)
		httpT.AddStreamableRouters(r, endpoints)

		httpAddr := cmd.String("http-addr")
		go r.Run(httpAddr)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}
