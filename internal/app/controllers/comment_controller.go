package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talabahamkor/choyxona/internal/app/models/dto"
	"github.com/talabahamkor/choyxona/internal/app/services"
	"github.com/talabahamkor/choyxona/internal/middleware"
)

// CommentController handles comment related operations
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// GetComments handles listing a post's comments
// @Summary Get a post's comments
// @Description Retrieves every comment on a post, most liked first, oldest first within ties. Replies to deleted comments appear as top-level.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommentListResponse} "Comments retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid post ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/comments [get]
func (c *CommentController) GetComments(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.commentService.ListComments(ctx, actor, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comments))
}

// CreateComment handles adding a comment to a post
// @Summary Create a comment
// @Description Adds a comment to a visible post, optionally as a reply to an existing comment on the same post.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment content and optional reply target"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse} "Comment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or reply target on another post"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Post or reply target not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	comment, err := c.commentService.CreateComment(ctx, actor, postID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment))
}

// UpdateComment handles editing a comment's content
// @Summary Update a comment
// @Description Replaces a comment's content. Only the author may edit.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.UpdateCommentRequest true "New content"
// @Success 200 {object} dto.APIResponse{data=dto.CommentResponse} "Comment updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /comments/{id} [put]
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	comment, err := c.commentService.UpdateComment(ctx, actor, commentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comment))
}

// DeleteComment handles removing a comment
// @Summary Delete a comment
// @Description Removes a comment. The author or a moderator for the post's scope kind may delete; replies to the deleted comment remain and surface as top-level.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Comment deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid comment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not the author or a moderator"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	commentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.commentService.DeleteComment(ctx, actor, commentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Comment deleted"}))
}
