package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bidforhope/livesync/go/clients"
	"github.com/bidforhope/livesync/go/internal/auctions"
	"github.com/bidforhope/livesync/go/internal/autobid"
	"github.com/bidforhope/livesync/go/internal/diag"
	"github.com/bidforhope/livesync/go/internal/models"
	"github.com/bidforhope/livesync/go/internal/push"
	"github.com/bidforhope/livesync/go/internal/session"
	"github.com/bidforhope/livesync/go/internal/topicsync"
	"github.com/bidforhope/livesync/go/internal/wallet"
	"github.com/bidforhope/livesync/go/internal/withdrawals"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := loadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	sess := session.New(os.Getenv("AUTH_TOKEN"), models.User{
		ID:    getEnv("USER_ID", cfg.NGOID),
		Email: getEnv("USER_EMAIL", cfg.NGOEmail),
		Role:  models.Role(getEnv("USER_ROLE", string(models.RoleNGO))),
	})
	if !sess.Authenticated() {
		log.Fatal().Msg("AUTH_TOKEN environment variable is required")
	}

	client := clients.NewBidForHopeClient(cfg.APIBaseURL, sess)

	log.Info().
		Str("api_base_url", cfg.APIBaseURL).
		Str("push_transport", cfg.PushTransport).
		Str("ngo_id", cfg.NGOID).
		Msg("starting livesync engine")

	transport, err := newTransport(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup push transport")
	}
	if transport != nil {
		defer transport.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var channels []*topicsync.Channel

	// Auction topics: polling only, the backend pushes nothing for live
	// auction state. One channel per followed auction.
	for _, auctionID := range cfg.AuctionIDs {
		view := auctions.NewView(auctionID, client)
		controller := autobid.NewController(auctionID, client, view.Auction)

		id := auctionID
		ch := topicsync.New(topicsync.Config{
			Topic:        "auction:" + id,
			PollInterval: cfg.Poll.Auction,
		}, nil, nil, func(ctx context.Context) error {
			if err := view.Refresh(ctx); err != nil {
				return err
			}
			return controller.Refresh(ctx)
		}, nil)
		channels = append(channels, ch)
	}

	// Wallet topic: walletUpdate events are signal-only, so no fold
	// function; every push or tick re-fetches the ledger.
	if cfg.NGOID != "" {
		walletView := wallet.NewView(cfg.NGOID, client)
		ch := topicsync.New(topicsync.Config{
			Topic:            push.WalletUpdateTopic(cfg.NGOID),
			PollInterval:     cfg.Poll.Wallet,
			WarnAfterOutages: 3,
		}, transport, nil, walletView.Refresh, nil)
		channels = append(channels, ch)
	}

	// Withdrawal topics: two push streams folded into one reconciler. The
	// reconciler serialises internally, so the two fold goroutines and the
	// poll snapshot cannot race.
	if cfg.NGOEmail != "" {
		reconciler := withdrawals.NewReconciler()
		pollWithdrawals := func(ctx context.Context) error {
			snapshot, err := client.GetMyWithdrawals(ctx, cfg.NGOEmail)
			if err != nil {
				return err
			}
			reconciler.Load(snapshot)
			return nil
		}

		requested := topicsync.New(topicsync.Config{
			Topic:            push.TopicWithdrawalRequested,
			PollInterval:     cfg.Poll.Withdrawals,
			WarnAfterOutages: 3,
		}, transport, nil, pollWithdrawals, func(ctx context.Context, event push.Event) {
			var req models.WithdrawalRequest
			if err := json.Unmarshal(event.Payload, &req); err != nil {
				log.Error().Err(err).Str("event_id", event.ID).Msg("bad withdrawalRequested payload")
				return
			}
			reconciler.ApplyRequested(req)
		})

		processed := topicsync.New(topicsync.Config{
			Topic:            push.TopicWithdrawalProcessed,
			PollInterval:     cfg.Poll.Withdrawals,
			WarnAfterOutages: 3,
		}, transport, nil, pollWithdrawals, func(ctx context.Context, event push.Event) {
			var req models.WithdrawalRequest
			if err := json.Unmarshal(event.Payload, &req); err != nil {
				log.Error().Err(err).Str("event_id", event.ID).Msg("bad withdrawalProcessed payload")
				return
			}
			reconciler.ApplyProcessed(req)
		})
		channels = append(channels, requested, processed)
	}

	for _, ch := range channels {
		ch.Start(ctx)
	}

	// Diagnostics server: /debug/sync reports per-channel health.
	diagServer := diag.NewServer(cfg.DiagPort, func() []*topicsync.Channel {
		return channels
	})
	go func() {
		log.Info().Str("addr", diagServer.Addr).Msg("diagnostics server starting")
		if err := diagServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("diagnostics server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := diagServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("diagnostics server shutdown failed")
	}

	cancel()
	for _, ch := range channels {
		ch.Stop()
	}

	log.Info().Msg("livesync engine shutdown complete")
}

// newTransport builds the configured push transport. "none" runs the engine
// on polling alone.
func newTransport(cfg Config) (push.Transport, error) {
	switch cfg.PushTransport {
	case "websocket":
		return push.NewWebSocketTransport(push.DefaultWebSocketConfig(cfg.PushURL), nil), nil
	case "nats":
		natsConfig := push.DefaultNATSConfig()
		natsConfig.URL = cfg.NATSURL
		return push.NewNATSTransport(natsConfig)
	default:
		return nil, nil
	}
}
