package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ad-quality/internal/server"
	"github.com/jonathan/ad-quality/internal/server/ratelimit"
)

var (
	servePort    int
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the scoring, compliance, similarity, DKI and entity rules endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or config, else 8080)")
	serveCmd.Flags().StringArrayVar(&serveOrigins, "cors-origin", nil, "Allowed CORS origin (repeatable, default *)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	port := a.cfg.Port
	if servePort > 0 {
		port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := a.openRules(ctx)
	if err != nil {
		return err
	}
	defer src.close()

	client, err := a.llmClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	} else {
		a.logger.Info("GEMINI_API_KEY not set, alternatives use synonyms only")
	}

	cfg := server.Config{
		Port:           port,
		Lexicon:        a.lex,
		Rules:          src.provider(),
		LLM:            client,
		Threshold:      a.cfg.SimilarityThreshold,
		MaxBatchSize:   a.cfg.MaxBatchSize,
		RateLimit:      ratelimit.LoadConfig(),
		Logger:         a.logger,
		AllowedOrigins: serveOrigins,
	}
	if src.db != nil {
		cfg.Health = src.db
	}

	a.logger.Info("starting ad quality API",
		zap.Int("port", port),
		zap.Bool("database", src.db != nil),
		zap.Bool("rules_file", src.file != nil))

	return server.New(cfg).Start(ctx)
}
