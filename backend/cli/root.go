// Package cli wires configuration, storage and the HTTP server into commands.
package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"university/backend/config"
	"university/backend/services"
	"university/backend/store"
	"university/backend/utils"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "university",
		Short:         "University administration API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.AddCommand(newServeCmd(), newSeedCmd())
	return root
}

// bootstrap loads configuration and builds the logger, store and service.
func bootstrap() (*config.Config, *log.Logger, *services.Service, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := utils.InitLogger(utils.LoggerConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.HashPasswords {
		logger.Info("password hashing enabled; verbatim passwords from earlier data will no longer match")
	} else {
		logger.Warn("passwords are stored and compared verbatim; set HASH_PASSWORDS=true to store bcrypt hashes")
	}

	svc := services.New(st, services.Options{HashPasswords: cfg.HashPasswords})
	if err := svc.Provision(); err != nil {
		return nil, nil, nil, fmt.Errorf("provision collections: %w", err)
	}
	return cfg, logger, svc, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := utils.InitDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		return store.NewGormStore(db)
	default:
		return store.NewFileStore(afero.NewOsFs(), cfg.DataDir)
	}
}
