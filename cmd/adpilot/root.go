package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"adpilot/internal/artifact"
	"adpilot/internal/chat"
	"adpilot/internal/config"
	"adpilot/internal/llm"
	"adpilot/internal/logging"
	"adpilot/internal/reporting"
	"adpilot/internal/server"
	"adpilot/internal/store"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adpilot",
		Short: "Conversational orchestrator for ads performance and keyword insights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
	cmd.PersistentFlags().String("addr", "", "listen address (overrides ADPILOT_ADDR)")
	cmd.PersistentFlags().String("log-level", "", "log level (overrides ADPILOT_LOG_LEVEL)")
	_ = viper.BindPFlag("addr", cmd.PersistentFlags().Lookup("addr"))
	_ = viper.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))
	return cmd
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if v := viper.GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	log := logging.New(nil, cfg.LogLevel)

	client, err := buildLLM(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	var repOpts []reporting.Option
	if cfg.ReportingAPIKey != "" {
		repOpts = append(repOpts, reporting.WithAPIKey(cfg.ReportingAPIKey))
	}
	backend, err := reporting.NewClient(cfg.ReportingBaseURL, repOpts...)
	if err != nil {
		return err
	}

	sessions, closeStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var archive *artifact.Archive
	if cfg.ArchiveEnabled {
		archive, err = artifact.NewArchive(artifact.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return err
		}
	}

	hub := server.NewHub()
	orch, err := chat.NewOrchestrator(sessions, client, backend, log,
		chat.WithOutcomeHook(hub.Publish))
	if err != nil {
		return err
	}

	srv := server.New(orch, hub, archive, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.Addr) }()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildLLM(ctx context.Context, cfg config.Config, log *logging.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewOpenAIClient(llm.OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
		}, log)
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg.GeminiModel)
	case "fake":
		return llm.NewFakeClient(), nil
	default:
		return nil, errors.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func buildStore(cfg config.Config) (chat.SessionStore, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemoryStore(cfg.SessionCap, cfg.SessionTTL), func() {}, nil
	case "postgres":
		s, err := store.OpenDB("pgx", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "sqlite":
		s, err := store.OpenDB("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
