package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(chat *Chat, image *Image) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(RequestLogger(), Recovery())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Not Found")
	})
	r.NoMethod(func(c *gin.Context) {
		abortWithError(c, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.GET("/", Root)
	r.GET("/health", Health)

	api := r.Group("/api")
	{
		api.POST("/chat", chat.Complete)
		api.POST("/chat/stream", chat.Stream)

		generate := api.Group("/generate")
		generate.GET("/models", image.Models)
		generate.POST("/image", image.Generate)
		generate.POST("/image/async", image.Submit)
		generate.GET("/status/:id", image.Status)
	}

	return r
}
