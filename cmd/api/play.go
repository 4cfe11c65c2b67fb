package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"

	"github.com/iamasit07/4-in-a-row-arena/internal/config"
	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/ai"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/bot"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
	"github.com/iamasit07/4-in-a-row-arena/pkg/randutil"
	"github.com/iamasit07/4-in-a-row-arena/pkg/uid"
)

type PlayCmd struct {
	ModelA  string `name:"model-a" help:"OpenRouter model for seat A"`
	ModelB  string `name:"model-b" help:"OpenRouter model for seat B"`
	EngineA string `name:"engine-a" help:"Use the built-in engine for seat A at this difficulty"`
	EngineB string `name:"engine-b" help:"Use the built-in engine for seat B at this difficulty"`
	APIKey  string `name:"api-key" help:"OpenRouter API key (defaults to OPENROUTER_API_KEY)"`
	Seed    *int64 `help:"Deterministic seed for engine and fallback moves (optional)"`
	Save    bool   `help:"Record the result in the configured score store"`
}

func seatConfig(model, difficulty string) domain.SeatConfig {
	if difficulty != "" {
		return domain.SeatConfig{Kind: domain.KindEngine, Difficulty: difficulty}
	}
	return domain.SeatConfig{Kind: domain.KindAI, Model: model}
}

func (c *PlayCmd) Run(cli *CLI) error {
	cfg := config.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cli.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := randutil.NewRandom()
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		rng = randutil.New(*c.Seed)
	}

	clock := quartz.NewReal()
	opts := game.Options{
		AI: ai.NewClient(ai.Config{
			BaseURL:        cfg.OpenRouterBaseURL,
			Referer:        cfg.OpenRouterReferer,
			Title:          cfg.OpenRouterTitle,
			MaxAttempts:    cfg.AIMaxAttempts,
			InitialBackoff: cfg.AIInitialBackoff,
			RequestTimeout: cfg.AIRequestTimeout,
		}, nil, clock, rng, logger),
		Engine:        bot.NewEngine(rng),
		Clock:         clock,
		Logger:        logger,
		DefaultAPIKey: cmp.Or(c.APIKey, cfg.OpenRouterAPIKey),
	}

	if c.Save {
		st, err := openStores(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		opts.Scores = st.Scores
		if st.Games != nil {
			opts.History = st.Games
		}
	}

	session := game.NewSession(uid.GenerateGameID(), opts)
	defaults := domain.DefaultSeats()
	modelA, modelB := c.ModelA, c.ModelB
	if modelA == "" {
		modelA = defaults[0].Config.Model
	}
	if modelB == "" {
		modelB = defaults[1].Config.Model
	}
	if err := session.ConfigureSeat(domain.SeatA, seatConfig(modelA, c.EngineA)); err != nil {
		return err
	}
	if err := session.ConfigureSeat(domain.SeatB, seatConfig(modelB, c.EngineB)); err != nil {
		return err
	}

	var lastLogged int
	session.Subscribe(func(snap game.Snapshot) {
		for _, entry := range snap.Log[min(lastLogged, len(snap.Log)):] {
			logger.Info(entry.Message)
		}
		lastLogged = len(snap.Log)
	})

	if err := session.Start(); err != nil {
		return err
	}

	for session.State() == domain.StatePlaying {
		if err := session.PlayTurn(ctx); err != nil {
			return fmt.Errorf("match aborted: %w", err)
		}
	}

	snap := session.Snapshot()
	fmt.Fprintln(os.Stdout, session.Board().String())
	logger.Info("Match finished", "state", snap.State, "moves", snap.MoveCount)
	return nil
}
