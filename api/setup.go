package api

import (
	"github.com/gin-gonic/gin"
	"gitlab.com/MikeTTh/env"

	"github.com/evai-live/evai-bot/vtuber"
)

func InitApi(debug bool) (func(), error) {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	vtuberClient = vtuber.NewClientFromEnv()

	router := newRouter()

	runFunc := func() {
		err := router.Run(env.String("API_BIND", ":8081"))
		if err != nil {
			panic(err)
		}
	}

	return runFunc, nil
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", handleHealthz)

	// viewer surface: the overlay polls this without credentials
	router.GET("/live/:key/tally", handleTally)

	authed := router.Group("", requireAdminTokenMiddleware)
	authed.POST("/live/:key/activate", handleActivate)
	authed.DELETE("/live/:key", handleDeactivate)
	authed.DELETE("/live", handleDeactivateAll)

	admin := authed.Group("/admin")
	admin.GET("/users", handleListUsers)
	admin.GET("/users/:id", handleGetUser)
	admin.POST("/users/:id/toggle-registered", handleToggleRegistered)
	admin.DELETE("/users/:id", handleDeleteUser)
	admin.GET("/vtuber/sessions", handleVtuberSessions)
	admin.POST("/vtuber/speak", handleVtuberSpeak)
	admin.POST("/vtuber/system", handleVtuberSystem)
	admin.POST("/vtuber/respond", handleVtuberRespond)

	return router
}
