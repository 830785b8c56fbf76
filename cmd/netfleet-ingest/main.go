// Package main is a thin CLI for loading documents into the document store
// ahead of time (e.g. tool-help text, runbooks). It does not implement any
// crawling or scraping behavior; it only reads a local file and calls
// document.Store.Create (spec §9's "out of scope collaborators").
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mayoengin/netfleet-rag/internal/config"
	"github.com/Mayoengin/netfleet-rag/pkg/document"
	"github.com/Mayoengin/netfleet-rag/pkg/embedding"
	"github.com/Mayoengin/netfleet-rag/pkg/vectorstore"
)

var (
	title     string
	kind      string
	keywords  string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "netfleet-ingest <file>",
	Short: "Load a document into the netfleet-rag document store",
	Long: `netfleet-ingest reads a single file's contents and stores it as one
Document, embedding its body with the same embedder netfleet-rag would use
at query time.

This is a reference tool only: a production deployment replaces the backing
document.Store and vectorstore.Store with persistent implementations rather
than the in-memory ones used here, which do not survive process exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.Flags().StringVar(&title, "title", "", "Document title (required)")
	rootCmd.Flags().StringVar(&kind, "kind", string(document.KindToolHelp), "Document kind: guide, troubleshooting, reference, tool-help, or other")
	rootCmd.Flags().StringVar(&keywords, "keywords", "", "Comma-separated keyword overrides (extracted from the body if omitted)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file (for embedding dimension/boosts)")
	rootCmd.MarkFlagRequired("title")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	body, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	embedder := embedding.NewFallbackEmbedder(cfg.EmbeddingDimension, cfg.SemanticBoosts)
	store := document.NewMemoryStore(vectorstore.NewMemoryStore(), embedder, nil)

	doc := &document.Document{
		Title:      title,
		Body:       string(body),
		Kind:       document.Kind(kind),
		Usefulness: 0.5,
	}
	if keywords != "" {
		doc.Keywords = splitAndTrim(keywords)
	}

	created, err := store.Create(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	fmt.Printf("ingested document %s (%q, kind=%s, %d keyword(s))\n", created.ID, created.Title, created.Kind, len(created.Keywords))
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
