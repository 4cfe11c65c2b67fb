package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/4-in-a-row-arena/internal/config"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/ai"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/bot"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/cleanup"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
	transportHttp "github.com/iamasit07/4-in-a-row-arena/internal/transport/http"
	"github.com/iamasit07/4-in-a-row-arena/internal/transport/websocket"
	"github.com/iamasit07/4-in-a-row-arena/pkg/auth"
)

type ServeCmd struct {
	Addr            string        `help:"Listen address (defaults to :PORT)"`
	ShutdownTimeout time.Duration `default:"30s" help:"Grace period for in-flight requests on shutdown"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg := config.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cli.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	clock := quartz.NewReal()
	aiClient := ai.NewClient(ai.Config{
		BaseURL:        cfg.OpenRouterBaseURL,
		Referer:        cfg.OpenRouterReferer,
		Title:          cfg.OpenRouterTitle,
		MaxAttempts:    cfg.AIMaxAttempts,
		InitialBackoff: cfg.AIInitialBackoff,
		RequestTimeout: cfg.AIRequestTimeout,
	}, nil, clock, nil, logger)

	opts := game.Options{
		AI:            aiClient,
		Engine:        bot.NewEngine(nil),
		Scores:        st.Scores,
		Clock:         clock,
		Logger:        logger,
		DefaultAPIKey: cfg.OpenRouterAPIKey,
		Autoplay:      true,
		Context:       ctx,
	}
	if st.Games != nil {
		opts.History = st.Games
	}
	sessionManager := game.NewSessionManager(opts)
	defer sessionManager.Shutdown()

	tokens := auth.NewSeatTokens(cfg.JWTSecret, cfg.SeatTokenTTL, clock)
	wsHandler := websocket.NewHandler(websocket.NewConnectionManager(), sessionManager, tokens, cfg.AllowedOrigins, logger)

	deps := transportHttp.Deps{
		SessionManager: sessionManager,
		Tokens:         tokens,
		Scores:         st.Scores,
		WebSocket:      wsHandler,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}
	if st.Games != nil {
		deps.History = st.Games
	}
	router := transportHttp.NewRouter(deps)

	addr := c.Addr
	if addr == "" {
		addr = ":" + cfg.Port
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	worker := cleanup.NewWorker(sessionManager, cfg.CleanupPeriod, clock, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "addr", addr, "origins", cfg.AllowedOrigins)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}
	logger.Info("Server exited gracefully")
	return nil
}
