package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "review_relay/internal/adapters/http_server"
	"review_relay/internal/adapters/observability"
	redisad "review_relay/internal/adapters/redis"
	"review_relay/internal/adapters/telegram"
	"review_relay/internal/app"
	"review_relay/internal/domain"
	"review_relay/internal/shared"
	"review_relay/internal/storage/memory"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := telegram.UseLogger(log.Logger); err != nil {
		log.Warn().Err(err).Msg("telegram logger not installed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := telegram.New(cfg.BotToken, cfg.SendRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Telegram client")
	}
	log.Info().Str("bot", bot.Username()).Str("mode", cfg.Mode).Msg("bot authorized")

	// identity cache is optional
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, identity cache disabled")
		} else {
			cache = rc
			defer rc.Close()
			log.Info().Str("addr", cfg.RedisAddr).Msg("identity cache enabled")
		}
	}

	// deps
	store := memory.New()
	ids := app.NewIdentityService(bot, cache, cfg.IdentityTTL)
	svc := app.NewReviewService(store, bot, ids, domain.ChatID(cfg.ModeratorID))
	disp := app.NewDispatcher(svc, cfg.Workers)

	// handlers run on their own context so in-flight deliveries finish after a signal
	handlerCtx := context.WithoutCancel(ctx)

	// http: health, metrics, webhook
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	h := &server.Handlers{}
	if cfg.Mode == shared.ModeWebhook {
		h.D = disp
	}
	srv.MountHandlers(h)
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutCtx)
	})

	switch cfg.Mode {
	case shared.ModeWebhook:
		if err := bot.RegisterWebhook(ctx, cfg.WebhookURL+server.WebhookPath); err != nil {
			log.Fatal().Err(err).Msg("webhook registration failed")
		}
		log.Info().Str("url", cfg.WebhookURL).Msg("webhook registered")
	default:
		g.Go(func() error {
			return bot.Poll(gctx, cfg.PollTimeout, func(_ context.Context, ev domain.Event) {
				disp.Dispatch(handlerCtx, ev)
			})
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("bot stopped with error")
	}
	disp.Wait()
	log.Info().Int("open_sessions", store.Len()).Msg("bot stopped")
}
