package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"wallet.com/internal/application/usecase"
	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
	"wallet.com/internal/infrastructure/config"
	"wallet.com/internal/infrastructure/crypto"
	httphandler "wallet.com/internal/infrastructure/http"
	"wallet.com/internal/infrastructure/logger"
	"wallet.com/internal/infrastructure/notification"
	"wallet.com/internal/infrastructure/repository"
	"wallet.com/internal/infrastructure/submitter"
	"wallet.com/internal/infrastructure/validator"
)

const serverDir = "server"

var apiServerCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "server",
	Short: "Run API Server.",
	RunE: func(_ *cobra.Command, _ []string) error {
		// Load configuration
		cfg, err := config.LoadConfig(configDir())
		if err != nil {
			logger.NewLogger().LogError(context.TODO(), "Failed to load config", err)
			return fmt.Errorf("failed to load config: %w", err)
		}

		appLogger := logger.NewLoggerWithLevel(os.Stdout, cfg.Log.Level)
		appLogger.LogInfo(context.TODO(), "Configuration loaded",
			"port", cfg.Server.Port,
			"session_ttl", cfg.Session.TTL.String(),
			"seeded_accounts", len(cfg.Ledger.Accounts))

		// Initialize infrastructure adapters
		ledgerRepo := repository.NewInMemoryLedger(appLogger)
		if err := seedLedger(context.TODO(), ledgerRepo, cfg.Ledger); err != nil {
			appLogger.LogError(context.TODO(), "Failed to seed ledger", err)
			return err
		}
		notifier := notification.NewCenter(appLogger)
		decryptor := crypto.NewNEP2(crypto.ScryptParams{
			N: cfg.NEP2.ScryptN,
			R: cfg.NEP2.ScryptR,
			P: cfg.NEP2.ScryptP,
		}, appLogger)
		entryValidator := validator.NewEntryValidator()
		txSubmitter := submitter.NewLedgerSubmitter(ledgerRepo, notifier, appLogger)
		sessions := repository.NewSessionStore(cfg.Session.MaxSessions, cfg.Session.TTL, appLogger)
		flows := repository.NewFlowRegistry(cfg.Session.MaxFlows, cfg.Session.TTL, appLogger)

		// Initialize use cases
		loginUseCase := usecase.NewLoginUseCase(decryptor, notifier, sessions)
		getBalanceUseCase := usecase.NewGetBalanceUseCase(ledgerRepo)
		openSendFlowUseCase := usecase.NewOpenSendFlowUseCase(ledgerRepo, entryValidator, txSubmitter, notifier)

		// Initialize HTTP handler
		handler := httphandler.NewHandler(
			loginUseCase,
			getBalanceUseCase,
			openSendFlowUseCase,
			sessions,
			flows,
			notifier,
			appLogger,
		)

		// Setup routes
		mux := handler.SetupRoutes()

		// Create HTTP server
		addr := ":" + cfg.Server.Port
		server := &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Channel to capture termination signals
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		// Error channel to capture errors from server
		errChan := make(chan error, 1)

		// Start server in a goroutine
		go func() {
			appLogger.LogInfo(context.TODO(), "Starting server", "address", addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Graceful shutdown
		select {
		case <-signalChan:
			appLogger.LogInfo(context.TODO(), "Received termination signal. Initiating graceful shutdown...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				appLogger.LogError(context.TODO(), "Server forced to shutdown", err)
				return err
			}

			appLogger.LogInfo(context.TODO(), "Server stopped gracefully")
		case err := <-errChan:
			appLogger.LogError(context.TODO(), "Server error", err)
			return err
		}

		return nil
	},
}

// configDir returns --config-dir, or the server config directory relative to where the binary is run from
func configDir() string {
	if configDirFlag != "" {
		return configDirFlag
	}
	dir := filepath.Join("cmd", "config", serverDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = filepath.Join(".", "config", serverDir)
	}
	return dir
}

// seedLedger credits the configured opening balances
func seedLedger(ctx context.Context, ledger port.LedgerRepository, cfg config.Ledger) error {
	for _, account := range cfg.Accounts {
		for _, b := range account.Balances {
			amount, err := decimal.NewFromString(b.Amount)
			if err != nil {
				return fmt.Errorf("invalid %s amount for %s: %w", b.Symbol, account.Address, err)
			}
			if err := ledger.AddEntry(ctx, entity.LedgerEntry{
				Address: account.Address,
				Asset:   b.Symbol,
				Amount:  amount,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(apiServerCmd)
}
