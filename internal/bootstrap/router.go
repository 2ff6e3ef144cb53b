package bootstrap

import (
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/CertTrack-HQ/certtrack-backend/internal/api/http"
	"github.com/CertTrack-HQ/certtrack-backend/internal/api/http/middleware"
	"github.com/CertTrack-HQ/certtrack-backend/internal/auth"
	authmw "github.com/CertTrack-HQ/certtrack-backend/internal/auth/middleware"
	"github.com/CertTrack-HQ/certtrack-backend/internal/users"
	wfhttp "github.com/CertTrack-HQ/certtrack-backend/internal/workforce/http"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/service"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	Redis        *redis.Client
	DB           *pgxpool.Pool
	FirebaseAuth *fbauth.Client
	Workforce    *service.Service
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-Id", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.RateLimit(rate.Limit(20), 40))

	if dep.FirebaseAuth != nil {
		api.Use(authmw.FirebaseAuth(dep.FirebaseAuth))
	}
	if dep.DB != nil {
		userRepo := users.NewRepo(dep.DB)
		api.Use(auth.WithUser(userRepo))
	} else {
		api.Use(auth.OptionalUser())
	}

	wfhttp.Register(api, dep.Workforce)

	return r
}
