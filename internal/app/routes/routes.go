package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talabahamkor/choyxona/internal/app/controllers"
	"github.com/talabahamkor/choyxona/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	postController *controllers.PostController,
	commentController *controllers.CommentController,
	engagementController *controllers.EngagementController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// Every feed route requires an authenticated actor
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	posts := authenticated.Group("/posts")
	{
		posts.GET("", postController.GetFeed)
		posts.POST("", postController.CreatePost)
		posts.GET("/:id", postController.GetPost)
		posts.PUT("/:id", postController.UpdatePost)
		posts.DELETE("/:id", postController.DeletePost)

		posts.POST("/:id/view", engagementController.RecordView)
		posts.POST("/:id/like", engagementController.LikePost)
		posts.DELETE("/:id/like", engagementController.UnlikePost)
		posts.POST("/:id/repost", engagementController.RepostPost)
		posts.DELETE("/:id/repost", engagementController.UnrepostPost)

		posts.GET("/:id/comments", commentController.GetComments)
		posts.POST("/:id/comments", commentController.CreateComment)
	}

	comments := authenticated.Group("/comments")
	{
		comments.PUT("/:id", commentController.UpdateComment)
		comments.DELETE("/:id", commentController.DeleteComment)

		comments.POST("/:id/like", engagementController.LikeComment)
		comments.DELETE("/:id/like", engagementController.UnlikeComment)
	}

	actors := authenticated.Group("/actors")
	{
		actors.GET("/:id/reposts", postController.GetRepostedPosts)
	}
}
