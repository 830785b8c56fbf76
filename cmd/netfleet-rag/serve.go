package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openai/openai-go/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qdrant/go-client/qdrant"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"net/http"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/Mayoengin/netfleet-rag/internal/config"
	"github.com/Mayoengin/netfleet-rag/pkg/ctxbuild"
	"github.com/Mayoengin/netfleet-rag/pkg/device"
	"github.com/Mayoengin/netfleet-rag/pkg/document"
	"github.com/Mayoengin/netfleet-rag/pkg/embedding"
	"github.com/Mayoengin/netfleet-rag/pkg/fusion"
	"github.com/Mayoengin/netfleet-rag/pkg/health"
	"github.com/Mayoengin/netfleet-rag/pkg/llm"
	"github.com/Mayoengin/netfleet-rag/pkg/orchestrator"
	"github.com/Mayoengin/netfleet-rag/pkg/quality"
	"github.com/Mayoengin/netfleet-rag/pkg/schema"
	"github.com/Mayoengin/netfleet-rag/pkg/toolsurface"
	"github.com/Mayoengin/netfleet-rag/pkg/toolsurface/mcpserver"
	"github.com/Mayoengin/netfleet-rag/pkg/vectorstore"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var metricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio, with a Prometheus metrics endpoint",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Address to serve Prometheus metrics on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry := schema.NewRegistry()
	embedder := buildEmbedder(cfg)
	source := device.NewMockSource(registry)

	vectors, err := buildVectorStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("build vector store: %w", err)
	}
	docs := document.NewMemoryStore(vectors, embedder, nil)

	rules, err := loadHealthRules()
	if err != nil {
		return fmt.Errorf("load health rules: %w", err)
	}
	healthEngine := health.NewEngine(embedder, rules)
	ruleStore := vectorstore.NewMemoryStore()
	ctx := cmd.Context()
	if err := healthEngine.IndexRules(ctx, ruleStore); err != nil {
		return fmt.Errorf("index health rules: %w", err)
	}

	llmClient := buildLLMClient()

	analyzer := fusion.NewAnalyzer(docs)
	assessor := quality.NewAssessor(cfg.Quality)
	builder := ctxbuild.NewBuilder(source, assessor, cfg.DefaultResultLimit)

	orch := orchestrator.New(analyzer, builder, registry, source, docs, healthEngine, ruleStore, llmClient, cfg, logger)
	surface := toolsurface.New(orch, registry, source, healthEngine, ruleStore, logger)

	if rulesPath != "" {
		watcher, err := config.NewRuleWatcher(rulesPath, func() error {
			data, err := os.ReadFile(rulesPath)
			if err != nil {
				return err
			}
			if _, err := health.LoadRules(data); err != nil {
				return err
			}
			logger.Warn("health rules file changed; restart the service to apply it",
				zap.String("path", rulesPath))
			return nil
		}, logger)
		if err != nil {
			return fmt.Errorf("create rules watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("start rules watcher: %w", err)
		}
		defer watcher.Stop()
	}

	registerMetrics(orch)
	stopMetricsServer := startMetricsServer(metricsAddr)
	defer stopMetricsServer()

	server := mcpserver.NewServer(surface, "0.1.0")

	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("netfleet-rag serving MCP over stdio", zap.String("metrics_addr", metricsAddr))
	return server.Run(sigCtx, &mcp.StdioTransport{})
}

func buildEmbedder(cfg *config.Config) embedding.Embedder {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && llmProvider == "openai" {
		return embedding.NewOpenAIEmbedder(apiKey, openai.EmbeddingModel("text-embedding-3-small"), cfg.EmbeddingDimension)
	}
	return embedding.NewFallbackEmbedder(cfg.EmbeddingDimension, cfg.SemanticBoosts)
}

func buildLLMClient() llm.Client {
	switch llmProvider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		model := openai.ChatModel(llmModel)
		if llmModel == "" {
			model = openai.ChatModelGPT4o
		}
		return llm.NewOpenAIClient(apiKey, model)
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		model := anthropic.Model(llmModel)
		if llmModel == "" {
			model = anthropic.Model("claude-sonnet-4-5")
		}
		return llm.NewAnthropicClient(apiKey, model)
	default:
		return &llm.MockClient{}
	}
}

func buildVectorStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, error) {
	if vectorProvider != "qdrant" {
		return vectorstore.NewMemoryStore(), nil
	}
	apiKey := qdrantAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("QDRANT_APIKEY")
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   qdrantHost,
		Port:   qdrantPort,
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}
	return vectorstore.NewQdrantStore(ctx, vectorstore.QdrantStoreConfig{
		Client:           client,
		CollectionName:   qdrantCollection,
		Dimensions:       cfg.EmbeddingDimension,
		InitializeSchema: true,
	})
}

func loadHealthRules() ([]*health.Rule, error) {
	if rulesPath == "" {
		return health.DefaultRules(), nil
	}
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		return nil, err
	}
	return health.LoadRules(data)
}

func registerMetrics(orch *orchestrator.Orchestrator) {
	for _, c := range orch.Metrics() {
		if err := prometheus.Register(c); err != nil {
			logger.Warn("metric already registered", zap.Error(err))
		}
	}
}

func startMetricsServer(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server exited", zap.Error(err))
		}
	}()
	return func() {
		_ = srv.Close()
	}
}
