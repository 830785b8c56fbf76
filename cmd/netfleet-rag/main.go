// Package main is the entry point for the netfleet-rag service: it wires
// config, embedding, vector store, document store, device source, health
// rule engine, and LLM client into an Orchestrator and Tool Surface, then
// serves that surface over MCP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	rulesPath  string
	verbose    bool

	llmProvider     string
	llmModel        string
	vectorProvider  string
	qdrantHost      string
	qdrantPort      int
	qdrantAPIKey    string
	qdrantCollection string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "netfleet-rag",
	Short: "RAG-backed network fleet health service",
	Long: `netfleet-rag answers free-form questions about a fiber/mobile network
fleet by combining a RAG fusion analyzer, a schema-aware context builder, a
declarative health rule engine, and an LLM-written summary.

Run "netfleet-rag serve" to start the MCP server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (defaults embedded if absent)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules-file", "", "Path to an operator-maintained health rules YAML file (overrides the embedded rule set; changes are re-validated on write and apply after a restart)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentFlags().StringVar(&llmProvider, "llm-provider", "mock", "LLM provider: openai, anthropic, or mock")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider-specific default if empty)")
	rootCmd.PersistentFlags().StringVar(&vectorProvider, "vector-store", "memory", "Vector store backend: memory or qdrant")
	rootCmd.PersistentFlags().StringVar(&qdrantHost, "qdrant-host", "localhost", "Qdrant host (vector-store=qdrant only)")
	rootCmd.PersistentFlags().IntVar(&qdrantPort, "qdrant-port", 6334, "Qdrant gRPC port (vector-store=qdrant only)")
	rootCmd.PersistentFlags().StringVar(&qdrantAPIKey, "qdrant-api-key", "", "Qdrant API key, or set QDRANT_APIKEY (vector-store=qdrant only)")
	rootCmd.PersistentFlags().StringVar(&qdrantCollection, "qdrant-collection", "netfleet-rag-docs", "Qdrant collection name for documents (health rules are always indexed in an in-memory store)")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
