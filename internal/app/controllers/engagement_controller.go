package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/app/models/dto"
	"github.com/talabahamkor/choyxona/internal/app/services"
	"github.com/talabahamkor/choyxona/internal/middleware"
)

// EngagementController handles like, view and repost operations
type EngagementController struct {
	engagementService services.EngagementService
}

// NewEngagementController creates a new EngagementController
func NewEngagementController(engagementService services.EngagementService) *EngagementController {
	return &EngagementController{engagementService: engagementService}
}

// LikePost handles liking a post
// @Summary Like a post
// @Description Records the actor's like on a post. Repeating the operation is a no-op: Changed is false and the counter is unchanged.
// @Tags engagements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementResponse} "Like recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid post ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/like [post]
func (c *EngagementController) LikePost(ctx *gin.Context) {
	c.handle(ctx, c.engagementService.LikePost)
}

// UnlikePost handles removing a like from a post
// @Summary Unlike a post
// @Description Removes the actor's like from a post. Removing a like that was never recorded is a no-op.
// @Tags engagements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementResponse} "Like removed"
// @Failure 400 {object} dto.ErrorResponse "Invalid post ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/like [delete]
func (c *EngagementController) UnlikePost(ctx *gin.Context) {
	c.handle(ctx, c.engagementService.UnlikePost)
}

// RepostPost handles reposting a post
// @Summary Repost a post
// @Description Records the actor's repost. Repeating the operation is a no-op.
// @Tags engagements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementResponse} "Repost recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid post ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/repost [post]
func (c *EngagementController) RepostPost(ctx *gin.Context) {
	c.handle(ctx, c.engagementService.RepostPost)
}

// UnrepostPost handles removing a repost
// @Summary Remove a repost
// @Description Removes the actor's repost of a post. Removing a repost that was never recorded is a no-op.
// @Tags engagements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementResponse} "Repost removed"
// @Failure 400 {object} dto.ErrorResponse "Invalid post ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/repost [delete]
func (c *EngagementController) UnrepostPost(ctx *gin.Context) {
	c.handle(ctx, c.engagementService.UnrepostPost)
}

// RecordView handles recording a post view
// @Summary Record a post view
// @Description Records that the actor has seen a post. Each actor counts once per post no matter how many times they view it.
// @Tags engagements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementResponse} "View recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid post ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/view [post]
func (c *EngagementController) RecordView(ctx *gin.Context) {
	c.handle(ctx, c.engagementService.RecordView)
}

// LikeComment handles liking a comment
// @Summary Like a comment
// @Description Records the actor's like on a comment. Repeating the operation is a no-op.
// @Tags engagements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementResponse} "Like recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid comment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /comments/{id}/like [post]
func (c *EngagementController) LikeComment(ctx *gin.Context) {
	c.handle(ctx, c.engagementService.LikeComment)
}

// UnlikeComment handles removing a like from a comment
// @Summary Unlike a comment
// @Description Removes the actor's like from a comment. Removing a like that was never recorded is a no-op.
// @Tags engagements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementResponse} "Like removed"
// @Failure 400 {object} dto.ErrorResponse "Invalid comment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /comments/{id}/like [delete]
func (c *EngagementController) UnlikeComment(ctx *gin.Context) {
	c.handle(ctx, c.engagementService.UnlikeComment)
}

// handle runs the shared parse-invoke-respond flow for engagement toggles
func (c *EngagementController) handle(ctx *gin.Context, op func(context.Context, *models.Actor, int64) (*dto.EngagementResponse, error)) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	result, err := op(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
