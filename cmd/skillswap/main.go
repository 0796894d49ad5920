package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"skillswap/config"
	"skillswap/internal/delivery"
	"skillswap/internal/delivery/api"
	"skillswap/internal/delivery/api/middleware"
	"skillswap/internal/delivery/api/router/handler"
	"skillswap/internal/domain/service"
	"skillswap/internal/errors"
	"skillswap/internal/infra/auth"
	"skillswap/internal/infra/auth/federated"
	"skillswap/internal/infra/auth/firebase"
	"skillswap/internal/infra/auth/google"
	logs "skillswap/internal/infra/log"
	"skillswap/internal/infra/persistence/postgres"
	"skillswap/internal/infra/ratelimit"
	"skillswap/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewSkillRepository,
			postgres.NewBookingRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newIdentityVerifier,
			ratelimit.New,
		),
	)
}

// newIdentityVerifier picks the federated login backend named in config.
// Without one every assertion is rejected.
func newIdentityVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.IdentityVerifier, error) {
	if cfg.Federated == nil {
		return federated.NewDisabledVerifier(), nil
	}

	switch provider := strings.ToLower(strings.TrimSpace(cfg.Federated.Provider)); provider {
	case "", config.FederatedProviderNone:
		return federated.NewDisabledVerifier(), nil
	case config.FederatedProviderFirebase:
		verifier, err := firebase.NewVerifier(ctx, cfg.Federated, logger)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create firebase verifier")
		}

		return verifier, nil
	case config.FederatedProviderGoogle:
		verifier, err := google.NewVerifier(ctx, cfg.Federated.ClientID, logger)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create google verifier")
		}

		return verifier, nil
	default:
		return nil, errors.Errorf("unknown federated provider %q", provider)
	}
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountResolver,
			impl.NewAccountService,
			impl.NewSkillService,
			impl.NewBookingService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewRateLimitMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewSkillHandler,
			handler.NewBookingHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
