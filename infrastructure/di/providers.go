// Package di assembles the application: repositories for the configured
// store driver, the participation tracker, and the command/query buses with
// every handler registered.
package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hivemind/application/commands"
	"hivemind/application/commands/bus"
	"hivemind/application/ports"
	"hivemind/application/queries"
	querybus "hivemind/application/queries/bus"
	"hivemind/application/services"
	"hivemind/infrastructure/config"
	"hivemind/infrastructure/persistence/arango"
	"hivemind/infrastructure/persistence/memory"
	"hivemind/pkg/auth"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Repositories *Repositories
	Accounts     *services.AccountService
	Tracker      *services.ParticipationTracker
	TokenIssuer  *auth.JWTGenerator
	TokenChecker *auth.JWTValidator
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
}

// Repositories bundles every persistence port behind one store driver.
type Repositories struct {
	Points        ports.PointRepository
	Synapses      ports.SynapseRepository
	Manifests     ports.ManifestRepository
	Users         ports.UserRepository
	Participation ports.ParticipationRepository
	SavedHives    ports.SavedHiveRepository
	Provisioner   ports.Provisioner
	Traverser     ports.Traverser
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideRepositories creates the repository bundle for the configured store
// driver. The arango driver connects and ensures the fixed collections exist;
// the memory driver backs everything with a single in-process store.
func ProvideRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	switch cfg.StoreDriver {
	case "memory":
		store := memory.NewStore()
		return &Repositories{
			Points:        store.Points(),
			Synapses:      store.Synapses(),
			Manifests:     store.Manifests(),
			Users:         store.Users(),
			Participation: store.Participation(),
			SavedHives:    store.SavedHives(),
			Provisioner:   store.Provisioner(),
			Traverser:     store.Traverser(),
		}, nil

	case "arango":
		db, err := arango.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := arango.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		return &Repositories{
			Points:        arango.NewPointRepository(db, logger),
			Synapses:      arango.NewSynapseRepository(db, logger),
			Manifests:     arango.NewManifestRepository(db, logger),
			Users:         arango.NewUserRepository(db, logger),
			Participation: arango.NewParticipationRepository(db, logger),
			SavedHives:    arango.NewSavedHiveRepository(db, logger),
			Provisioner:   arango.NewProvisioner(db, logger),
			Traverser:     arango.NewTraverser(db, logger),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// jwtConfig builds the shared token configuration. Production refuses to
// start without a secret; development falls back to a fixed one.
func jwtConfig(cfg *config.Config) auth.JWTConfig {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "hivemind-development-secret"
	}
	return auth.JWTConfig{
		SecretKey:  secret,
		Issuer:     cfg.JWTIssuer,
		ExpiryTime: 7 * 24 * time.Hour,
	}
}

// ProvideJWTGenerator creates the token issuer
func ProvideJWTGenerator(cfg *config.Config) (*auth.JWTGenerator, error) {
	return auth.NewJWTGenerator(jwtConfig(cfg))
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(jwtConfig(cfg))
}

// ProvideAccountService creates the account service
func ProvideAccountService(repos *Repositories, logger *zap.Logger) *services.AccountService {
	return services.NewAccountService(repos.Users, logger)
}

// ProvideParticipationTracker creates the participation tracker
func ProvideParticipationTracker(repos *Repositories, logger *zap.Logger) *services.ParticipationTracker {
	return services.NewParticipationTracker(repos.Manifests, repos.Participation, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repos *Repositories,
	tracker *services.ParticipationTracker,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	createPointHandler := commands.NewCreatePointHandler(
		repos.Points, repos.Synapses, repos.Manifests, repos.Users, tracker, logger)
	commandBus.Register(commands.CreatePointCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			createCmd, ok := cmd.(commands.CreatePointCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return createPointHandler.Handle(ctx, createCmd)
		},
	})

	createSynapseHandler := commands.NewCreateSynapseHandler(
		repos.Points, repos.Synapses, repos.Manifests, repos.Users, tracker, logger)
	commandBus.Register(commands.CreateSynapseCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			synapseCmd, ok := cmd.(commands.CreateSynapseCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return createSynapseHandler.Handle(ctx, synapseCmd)
		},
	})

	respondHandler := commands.NewRespondHandler(
		repos.Points, repos.Synapses, repos.Manifests, tracker, logger)
	commandBus.Register(commands.RespondCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			respondCmd, ok := cmd.(commands.RespondCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return respondHandler.Handle(ctx, respondCmd)
		},
	})

	deleteHandler := commands.NewDeleteLastItemHandler(
		repos.Points, repos.Synapses, repos.Manifests, repos.Users, logger)
	commandBus.Register(commands.DeleteLastItemCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			deleteCmd, ok := cmd.(commands.DeleteLastItemCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return deleteHandler.Handle(ctx, deleteCmd)
		},
	})

	createHiveHandler := commands.NewCreateHiveHandler(
		repos.Manifests, repos.SavedHives, repos.Users, repos.Provisioner, createPointHandler, tracker, logger)
	commandBus.Register(commands.CreateHiveCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			hiveCmd, ok := cmd.(commands.CreateHiveCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return createHiveHandler.Handle(ctx, hiveCmd)
		},
	})

	// One handler serves both yard-membership commands.
	savedHandler := commands.NewSavedHiveHandler(repos.Manifests, repos.SavedHives, logger)
	commandBus.Register(commands.SaveHiveCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			saveCmd, ok := cmd.(commands.SaveHiveCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return savedHandler.HandleSave(ctx, saveCmd)
		},
	})
	commandBus.Register(commands.ForgetHiveCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			forgetCmd, ok := cmd.(commands.ForgetHiveCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return savedHandler.HandleForget(ctx, forgetCmd)
		},
	})

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	repos *Repositories,
	cfg *config.Config,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	getHiveHandler := queries.NewGetHiveHandler(repos.Manifests, cfg.HistoryDays, logger)
	queryBus.Register(queries.GetHiveQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetHiveQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getHiveHandler.Handle(ctx, getQuery)
		},
	})

	subgraphHandler := queries.NewLoadSubgraphHandler(repos.Manifests, repos.Points, repos.Traverser, logger)
	queryBus.Register(queries.LoadSubgraphQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			subQuery, ok := query.(queries.LoadSubgraphQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return subgraphHandler.Handle(ctx, subQuery)
		},
	})

	findHandler := queries.NewFindPointsHandler(repos.Manifests, repos.Points, logger)
	queryBus.Register(queries.FindPointsQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			findQuery, ok := query.(queries.FindPointsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return findHandler.Handle(ctx, findQuery)
		},
	})

	yardHandler := queries.NewLoadYardHandler(repos.Manifests, cfg.HistoryDays, logger)
	queryBus.Register(queries.LoadYardQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			yardQuery, ok := query.(queries.LoadYardQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return yardHandler.Handle(ctx, yardQuery)
		},
	})

	listSavedHandler := queries.NewListSavedHandler(repos.SavedHives, cfg.HistoryDays, logger)
	queryBus.Register(queries.ListSavedQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListSavedQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return listSavedHandler.Handle(ctx, listQuery)
		},
	})

	return queryBus
}
