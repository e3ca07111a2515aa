// Package routesはroutingを行います。
package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	log "github.com/sirupsen/logrus"

	"go-tasks-api/backend/internal/config"
	"go-tasks-api/backend/internal/handlers"
	"go-tasks-api/backend/internal/openapi"
	"go-tasks-api/backend/internal/repositories"
	"go-tasks-api/backend/internal/validation"
)

// Version は /doc に表示するAPIバージョンです。ビルド時に -ldflags で上書きします。
var Version = "1.0.0"

func init() {
	// ShouldBindJSON の検証を Task の契約で行う
	binding.Validator = validation.Default()
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
// test モードではストアを注入しません (テスト側で注入します)。
func SetupRouter(store repositories.TaskStore, cfg *config.Config, logger *log.Logger) *gin.Engine {
	r := newEngine(logger, !cfg.IsProduction())

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	r.Use(cors.New(corsConfig))

	if !cfg.IsTest() {
		r.Use(DB(store))
	}
	r.Use(ErrorHandler(!cfg.IsProduction()))

	registerRoutes(r, logger)
	return r
}

// NewTestRouter はストアを明示的に注入したテスト用ルーターを返します。
func NewTestRouter(store repositories.TaskStore, logger *log.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := newEngine(logger, true)
	if store != nil {
		r.Use(DB(store))
	}
	r.Use(ErrorHandler(true))
	registerRoutes(r, logger)
	return r
}

func newEngine(logger *log.Logger, exposeErrors bool) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = false
	r.Use(Recovery(logger, exposeErrors), RequestID(), Favicon(), Logger(logger))
	r.NoRoute(NotFound)
	return r
}

func registerRoutes(r *gin.Engine, logger *log.Logger) {
	taskHandler := handlers.NewTaskHandler(logger)

	doc := openapi.NewDocument(Version)
	r.GET("/doc", func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	})

	tasks := r.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.GET("/:id", taskHandler.GetOne)
		tasks.PATCH("/:id", taskHandler.Patch)
		tasks.DELETE("/:id", taskHandler.Remove)
	}
}
