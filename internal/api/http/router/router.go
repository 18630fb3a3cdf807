package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/rehabworks/rehab_backend/config"
	"github.com/rehabworks/rehab_backend/internal/api/http/handler"
	"github.com/rehabworks/rehab_backend/internal/api/http/middleware"
	"github.com/rehabworks/rehab_backend/internal/service/auth"
	"github.com/rehabworks/rehab_backend/internal/service/exercise"
	"github.com/rehabworks/rehab_backend/internal/service/progress"
	"github.com/rehabworks/rehab_backend/internal/service/routine"
	"github.com/rehabworks/rehab_backend/pkg/database"
	pasetotoken "github.com/rehabworks/rehab_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg         *config.Config
	Redis       *redis.Client
	DB          *database.DB
	AuthSvc     auth.Service
	ExerciseSvc exercise.Service
	RoutineSvc  routine.Service
	ProgressSvc progress.Service
	PasetoMgr   *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

// Register wires every route. Each protected route declares its allowed
// roles inline; middleware.RequireRoles is the single evaluation point.
func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.Redis)

	// 3. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc)
	exerciseH := handler.NewExerciseHandler(r.p.ExerciseSvc)
	routineH := handler.NewRoutineHandler(r.p.RoutineSvc)
	progressH := handler.NewProgressHandler(r.p.ProgressSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired)
	r.registerExerciseRoutes(api, exerciseH, authRequired)
	r.registerRoutineRoutes(api, routineH, authRequired)
	r.registerProgressRoutes(api, progressH, authRequired)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.p.DB.Ping() == nil },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
