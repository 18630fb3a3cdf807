package app

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/rehabworks/rehab_backend/config"
	"github.com/rehabworks/rehab_backend/internal/service/auth"
	"github.com/rehabworks/rehab_backend/internal/service/exercise"
	"github.com/rehabworks/rehab_backend/internal/service/progress"
	"github.com/rehabworks/rehab_backend/internal/service/routine"
	"github.com/rehabworks/rehab_backend/internal/store"
	"github.com/rehabworks/rehab_backend/pkg/email"
	pasetotoken "github.com/rehabworks/rehab_backend/pkg/paseto"
)

// ServiceModule provides all business services.
var ServiceModule = fx.Module("services",
	fx.Provide(ProvidePasetoManager),
	fx.Provide(ProvideAuthService),
	fx.Provide(ProvideExerciseService),
	fx.Provide(ProvideRoutineService),
	fx.Provide(ProvideProgressService),
)

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}

func ProvideAuthService(
	st store.Store,
	rdb *redis.Client,
	mailer *email.Client,
	paseto *pasetotoken.Manager,
	cfg *config.Config,
	log *slog.Logger,
) auth.Service {
	return auth.New(st, rdb, mailer, paseto, cfg, log)
}

func ProvideExerciseService(st store.Store) exercise.Service {
	return exercise.New(st)
}

func ProvideRoutineService(st store.Store, mailer *email.Client, log *slog.Logger) routine.Service {
	return routine.New(st, st, st, mailer, log)
}

func ProvideProgressService(st store.Store) progress.Service {
	return progress.New(st, st, st)
}
