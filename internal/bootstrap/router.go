package bootstrap

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/haitaton/hanke-service/internal/api/http"
	"github.com/haitaton/hanke-service/internal/api/http/middleware"
	applicationhttp "github.com/haitaton/hanke-service/internal/application/http"
	"github.com/haitaton/hanke-service/internal/auth"
	hankehttp "github.com/haitaton/hanke-service/internal/hanke/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	DB             *sql.DB
	Services       *Services
	Log            *slog.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-Id", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID(dep.Log.With("component", "http")))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Services.Search, dep.Log)
	healthHandler.RegisterRoutes(r)

	svc := dep.Services
	hankeHandler := hankehttp.NewHandler(svc.Hankkeet, svc.Permissions, svc.Search, dep.Log.With("component", "hanke-http"))
	applicationHandler := applicationhttp.NewHandler(svc.Applications, svc.Attachments, svc.Permissions, dep.Log.With("component", "application-http"))

	api := r.Group("/api/v1")

	public := api.Group("/", auth.OptionalUser())
	hankeHandler.RegisterPublic(public)

	authed := api.Group("/", auth.RequireUser())
	hankeHandler.Register(authed)
	applicationHandler.Register(authed)

	return r
}
