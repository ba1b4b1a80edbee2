package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"btoolme/internal/shared/config"
	"btoolme/internal/shared/metrics"
	"btoolme/internal/shared/server/middleware"
	"btoolme/internal/shared/server/respond"
)

// FunctionsPrefix keeps the paths the existing front-end already calls.
const FunctionsPrefix = "/.netlify/functions"

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps lists the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config    config.Config
	Metrics   *metrics.Recorder
	Catalog   RouteRegistrar
	Questions RouteRegistrar
	Delivery  RouteRegistrar
	Health    RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsDevLike() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.NoMethod(func(c *gin.Context) {
		respond.Error(c, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
	})
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Not found", nil)
	})

	if deps.Metrics != nil {
		r.GET("/metrics", metrics.Handler(deps.Metrics))
	}

	for _, group := range []*gin.RouterGroup{r.Group(""), r.Group(FunctionsPrefix)} {
		for _, h := range []RouteRegistrar{deps.Catalog, deps.Questions, deps.Delivery, deps.Health} {
			if h != nil {
				h.RegisterRoutes(group)
			}
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
