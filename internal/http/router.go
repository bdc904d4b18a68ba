package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/takaio/ipgate/internal/service"
	"github.com/takaio/ipgate/internal/store"
	"github.com/takaio/ipgate/pkg/httpx"
	"github.com/takaio/ipgate/pkg/slogx"

	_ "github.com/takaio/ipgate/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	LifecycleService *service.LifecycleService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerGate()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			ipgate API
//	@version		0.1.0
//	@description	IP authorization gate. A visitor's browser requests a short-lived
//	@description	code, a human approves it through the Discord bot, and the browser
//	@description	polls until the gate opens.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerGate() {
	r.Mux.Handle("GET /{$}", IndexHandler())

	r.Mux.Handle("GET /generate_id", &GenerateCodeHandler{
		LifecycleService: r.LifecycleService,
	})

	r.Mux.Handle("GET /check_auth", &CheckAuthHandler{
		LifecycleService: r.LifecycleService,
	})

	r.Mux.Handle("GET /authenticated_content", &GatedContentHandler{
		LifecycleService: r.LifecycleService,
	})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
