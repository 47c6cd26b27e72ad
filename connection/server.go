package connection

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gtdagent/config"
	aicontroller "gtdagent/controller/ai"
	"gtdagent/controller/auth"
	"gtdagent/controller/contexts"
	"gtdagent/controller/project"
	"gtdagent/controller/reference"
	"gtdagent/controller/task"
	"gtdagent/middleware"
	"gtdagent/services"
	"gtdagent/store"
)

// NewRouter wires every route. When auth is enabled the /api group requires
// an access token from POST /auth/token.
func NewRouter(cfg *config.Config, s *store.Store, advisor *services.Advisor) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	api := router.Group("/api")
	if cfg.AuthEnabled() {
		secret := []byte(cfg.JWTSecret)
		auth.TokenController(router, secret, cfg.PasswordHash)
		api.Use(middleware.AccessTokenMiddleware(secret))
	}

	aicontroller.AIController(api, advisor, s)
	task.TaskController(api, s)
	project.ProjectController(api, s)
	contexts.ContextController(api, s)
	reference.ReferenceController(api, s)

	return router
}

// StartServer opens the store and serves the API until the listener fails.
func StartServer(ctx context.Context, cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	s, db, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	advisor := services.NewAdvisor(services.NewChatProvider(cfg.AI(), nil))
	router := NewRouter(cfg, s, advisor)

	if !cfg.AuthEnabled() {
		log.Println("Auth disabled: set JWT_SECRET_KEY and GTD_PASSWORD_HASH to require tokens")
	}
	log.Printf("Listening on %s", cfg.Addr)
	return router.Run(cfg.Addr)
}
