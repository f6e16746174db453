package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"moodsync/internal/core"
	httpserver "moodsync/internal/http"
	"moodsync/internal/i18n"
	"moodsync/internal/llm"
	"moodsync/internal/mood"
	"moodsync/internal/report"
	"moodsync/internal/spotify"
	"moodsync/internal/store"
)

var compareCmd = &cobra.Command{
	Use:   "compare [text]",
	Short: "Compare a chat message with today's listening mood",
	Long: `Asks for the text you plan on sending (or takes it as arguments), infers the mood of
today's Spotify listening and of the text, and tells whether the two feel alike.`,
	RunE: runCompare,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP façade (POST /tracks/, POST /square/)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "Print today's tracks with their audio features",
	Args:  cobra.NoArgs,
	RunE:  runTracks,
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runCompare(_ *cobra.Command, args []string) error {
	if err := validateConfig(config, true); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	console := report.NewConsole(os.Stdout, i18n.NewLocalizer(config.App.Language))

	chat := strings.TrimSpace(strings.Join(args, " "))
	if chat == "" {
		var err error
		if chat, err = console.AskChat(bufio.NewReader(os.Stdin)); err != nil {
			return err
		}
	}

	history, err := createHistory()
	if err != nil {
		return err
	}

	provider, err := llm.NewProvider(&config.LLM, logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	comparator, err := mood.NewComparator(&config.Compare, provider, logger.Named("compare"))
	if err != nil {
		return err
	}

	service := mood.NewService(history, provider, config.Spotify.Credentials(), logger.Named("mood"))
	orchestrator := core.NewOrchestrator(service, comparator, console, logger.Named("orchestrator"))

	logger.Info("Starting compare run",
		zap.String("llm_provider", config.LLM.Provider),
		zap.String("compare_strategy", config.Compare.Strategy),
		zap.Bool("remote_tracks", config.Spotify.TracksURL != ""))

	_, err = orchestrator.Run(ctx, chat)
	return err
}

func runServe(_ *cobra.Command, _ []string) error {
	if err := validateConfig(config, false); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if config.Spotify.TracksURL != "" {
		logger.Warn("Ignoring tracks-url, the server always calls Spotify directly",
			zap.String("tracks_url", config.Spotify.TracksURL))
	}

	ctx, cancel := signalContext()
	defer cancel()

	fetcher, err := createFetcher()
	if err != nil {
		return err
	}

	server := httpserver.NewServer(&config.Server, fetcher, logger.Named("http"))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gCtx)
	})

	logger.Info("moodsync server started",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("moodsync server stopped with error", zap.Error(err))
		return err
	}

	logger.Info("moodsync server stopped gracefully")
	return nil
}

func runTracks(_ *cobra.Command, _ []string) error {
	if err := validateConfig(config, false); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := validateSpotifyConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	history, err := createHistory()
	if err != nil {
		return err
	}

	records, err := history.FetchTodayFeatures(ctx, config.Spotify.Credentials())
	if err != nil {
		return fmt.Errorf("failed to fetch today's tracks: %w", err)
	}

	report.NewConsole(os.Stdout, i18n.NewLocalizer(config.App.Language)).ShowTracks(records)
	return nil
}

// createHistory reads from a remote façade when tracks-url is set, otherwise from Spotify.
func createHistory() (core.ListeningHistory, error) {
	if config.Spotify.TracksURL != "" {
		return spotify.NewRemoteHistory(config.Spotify.TracksURL, logger.Named("remote")), nil
	}
	return createFetcher()
}

func createFetcher() (*spotify.Fetcher, error) {
	tokens, err := store.NewTokenStore(config.Spotify.TokenDir, store.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	logger.Debug("Token store opened",
		zap.String("dir", tokens.Dir()),
		zap.Int("stored_tokens", tokens.Len()))

	auth := spotify.NewAuthenticator(&config.Spotify, tokens, logger.Named("auth"))
	return spotify.NewFetcher(auth, logger.Named("spotify")), nil
}
