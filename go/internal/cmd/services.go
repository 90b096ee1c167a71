package main

import (
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/auth"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/gateway"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/plant"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/pomodoro"
	pomodorodb "github.com/k1ngsalm0n/pomodoro-plant/go/internal/pomodoro/db"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/stats"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/storage/memstore"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/users"
	usersdb "github.com/k1ngsalm0n/pomodoro-plant/go/internal/users/db"
)

// Stores are the repositories behind every app
type Stores struct {
	Users     users.UsersRepository
	Plants    plant.PlantRepository
	Sessions  pomodoro.SessionRepository
	Stats     stats.StatsRepository
	Snapshots gateway.SnapshotStore
}

// postgresStores wires the Postgres repositories
func postgresStores(database *sql.DB) Stores {
	return Stores{
		Users:     users.NewRepository(usersdb.New(database)),
		Plants:    plant.NewRepository(database),
		Sessions:  pomodoro.NewRepository(pomodorodb.New(database)),
		Stats:     stats.NewRepository(database),
		Snapshots: gateway.NewRepository(database),
	}
}

// memoryStores backs every repository with one in-process store
func memoryStores(clock clockwork.Clock) Stores {
	store := memstore.New(clock)
	return Stores{
		Users:     store,
		Plants:    store,
		Sessions:  store,
		Stats:     store,
		Snapshots: store,
	}
}

type Services struct {
	Tokens   *auth.TokenIssuer
	Users    *users.Service
	Plant    *plant.Service
	Pomodoro *pomodoro.Service
	Stats    *stats.Service
	Gateway  *gateway.Service
}

func setupServices(cfg *Config, stores Stores, clock clockwork.Clock) (*Services, error) {
	// Wire up dependency injection chain
	// Repository layer → App layer → Service layer
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, clock)

	// Relay first: the apps push their updates through it
	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.NatsURL = cfg.NatsURL
	gatewayService, err := gateway.NewService(gatewayConfig, tokens, stores.Snapshots)
	if err != nil {
		return nil, err
	}
	notifier := gatewayService.Notifier()

	// Users
	userApp := users.NewApp(stores.Users, tokens)
	userService := users.NewService(userApp)

	// Plant
	catalog, err := plant.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load species catalog: %w", err)
	}
	plantApp := plant.NewApp(stores.Plants, catalog, notifier)
	plantService := plant.NewService(plantApp)

	// Stats
	statsApp := stats.NewApp(stores.Stats, clock)
	statsService := stats.NewService(statsApp)

	// Pomodoro
	pomodoroApp := pomodoro.NewApp(stores.Sessions, statsApp, notifier, clock, cfg.Timer)
	pomodoroService := pomodoro.NewService(pomodoroApp)

	return &Services{
		Tokens:   tokens,
		Users:    userService,
		Plant:    plantService,
		Pomodoro: pomodoroService,
		Stats:    statsService,
		Gateway:  gatewayService,
	}, nil
}
