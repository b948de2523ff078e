package main

import (
	"charmapi/internal/adapters/generator"
	"charmapi/internal/adapters/handler"
	"charmapi/internal/config"
	"charmapi/internal/core/domain"
	"charmapi/internal/core/port"
	"charmapi/internal/core/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "charmapi",
	Short:        "Charm AI API relays character chat and image generation to upstream AI providers",
	Version:      domain.Version,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"path to a TOML config file (default ./config.toml if present)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("charmapi exited")
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	log.Info().Msg("starting charmapi...")

	cfg, creds, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	setupLogger(cfg.Log)

	for _, env := range creds.Missing() {
		log.Warn().Str("variable", env).Msg("credential not configured, requests needing it will fail")
	}

	catalog, err := domain.NewImageCatalog(domain.DefaultImageModels(), cfg.ImageModels, domain.DefaultImageModel)
	if err != nil {
		return err
	}

	var newChatGenerator port.ChatGeneratorFactory
	switch cfg.Chat.Provider {
	case config.ProviderOpenRouter:
		newChatGenerator = generator.OpenRouterFactory(cfg.Chat.BaseURL)
	default:
		newChatGenerator = generator.OpenAIFactory(cfg.Chat.BaseURL)
	}

	chatService := service.NewChatService(creds, newChatGenerator, cfg.Chat.Model, cfg.HandlerTimeout)
	imageService := service.NewImageService(creds,
		generator.ReplicateFactory(cfg.Replicate.BaseURL, cfg.Replicate.PollInterval),
		catalog, cfg.HandlerTimeout)

	gin.SetMode(cfg.Server.Mode)
	router := handler.NewRouter(handler.NewChat(chatService), handler.NewImage(imageService))

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("chatProvider", cfg.Chat.Provider).
			Str("chatModel", cfg.Chat.Model).
			Msg("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) {
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	logLevel, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || logLevel == zerolog.NoLevel {
		log.Warn().Str("level", cfg.Level).Msg("unknown log level, using info")
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	zerolog.DefaultContextLogger = &log.Logger
}
