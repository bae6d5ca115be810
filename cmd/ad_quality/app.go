package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ad-quality/internal/config"
	"github.com/jonathan/ad-quality/internal/db"
	"github.com/jonathan/ad-quality/internal/lexicon"
	"github.com/jonathan/ad-quality/internal/llm"
	"github.com/jonathan/ad-quality/internal/logging"
	"github.com/jonathan/ad-quality/internal/observability"
	"github.com/jonathan/ad-quality/internal/rules"
)

// errNoRulesSource is returned by commands that need entity rules when none are configured.
var errNoRulesSource = errors.New("no entity rules source configured: set DATABASE_URL, ENTITY_RULES_PATH or --rules")

// app holds what every command shares: the effective config, a logger and the lexicon.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	lex    *lexicon.Lexicon
}

// newApp loads config, applies the global flags and loads the lexicon.
func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if lexiconPath != "" {
		cfg.LexiconPath = lexiconPath
	}
	if rulesPath != "" {
		cfg.EntityRulesPath = rulesPath
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, err
	}

	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		lex, err = lexicon.LoadFile(cfg.LexiconPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("lexicon loaded", zap.String("path", cfg.LexiconPath))
	}

	return &app{cfg: cfg, logger: logger, lex: lex}, nil
}

// close flushes the logger.
func (a *app) close() {
	_ = a.logger.Sync()
}

// rulesSource is an opened entity rules backend.
type rulesSource struct {
	store rules.Store
	file  *rules.StaticProvider // set when rules come from a file, for write-back
	path  string
	db    *db.DB
}

// provider returns the store as a Provider, or nil when no source is configured.
func (s *rulesSource) provider() rules.Provider {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store
}

// persist writes file-backed rules back to disk. Database-backed rules are already durable.
func (s *rulesSource) persist() error {
	if s.file == nil {
		return nil
	}
	data, err := json.MarshalIndent(s.file.File(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entity rules: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write entity rules %s: %w", s.path, err)
	}
	return nil
}

func (s *rulesSource) close() {
	if s != nil && s.db != nil {
		s.db.Close()
	}
}

// openRules opens the database when DATABASE_URL is set, otherwise the rules file.
// With neither configured the source is empty and only inline rules apply.
func (a *app) openRules(ctx context.Context) (*rulesSource, error) {
	switch {
	case a.cfg.DatabaseURL != "":
		database, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &rulesSource{
			store: rules.NewCachedProvider(database, a.cfg.RulesCacheTTL),
			db:    database,
		}, nil
	case a.cfg.EntityRulesPath != "":
		file, err := rules.LoadFile(a.cfg.EntityRulesPath)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("entity rules loaded",
			zap.String("path", a.cfg.EntityRulesPath),
			zap.Int("entities", len(file.Entities())))
		return &rulesSource{store: file, file: file, path: a.cfg.EntityRulesPath}, nil
	default:
		return &rulesSource{}, nil
	}
}

// llmClient returns a Gemini client when an API key is configured. The returned
// interface is nil, not a typed nil, when there is no key.
func (a *app) llmClient(ctx context.Context) (llm.Client, error) {
	if a.cfg.APIKey == "" {
		return nil, nil
	}
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), a.cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// readJSON decodes path into v. An empty path or "-" reads the command's stdin.
func readJSON(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "" || path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to parse input JSON: %w", err)
	}
	if val, ok := v.(interface{ Validate() error }); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("invalid input: %w", err)
		}
	}
	return nil
}

// printResult writes v as indented JSON with --json, otherwise calls pretty.
func printResult(cmd *cobra.Command, v any, pretty func(p *observability.Printer)) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	pretty(observability.NewPrinter(cmd.OutOrStdout()))
	return nil
}
