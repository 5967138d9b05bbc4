package main

import (
	"context"
	"flag"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/config"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/migrate"
	postgresrepo "github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/repository/postgres"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.Env, cfg.LogLevel)

	if cfg.StoreDriver != config.StoreDriverPostgres {
		logger.Fatal().Str("driver", cfg.StoreDriver).Msg("migrations only apply to the postgres store")
	}

	ctx := context.Background()
	pool, err := postgresrepo.NewPgxPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if *down {
		if err := migrate.Down(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("roll back migrations")
		}
		logger.Info().Msg("migrations rolled back")
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}
	logger.Info().Msg("migrations applied")
}
