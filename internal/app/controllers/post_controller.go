package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/talabahamkor/choyxona/internal/app/models/dto"
	"github.com/talabahamkor/choyxona/internal/app/services"
	"github.com/talabahamkor/choyxona/internal/middleware"
	"github.com/talabahamkor/choyxona/internal/pkg/helpers"
)

// PostController handles post and feed related operations
type PostController struct {
	postService services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService) *PostController {
	return &PostController{postService: postService}
}

// GetFeed handles retrieving one page of the scoped feed
// @Summary Get the feed
// @Description Retrieves one page of posts at the requested scope kind, restricted to what the authenticated actor may see. Newest first with cursor pagination.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scopeKind query string true "Scope kind" Enums(university, faculty, specialty, group)
// @Param cursor query string false "Opaque cursor from the previous page"
// @Param limit query int false "Page size (default: 20, max: 100)" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.FeedResponse} "Feed page retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid scope kind or cursor"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts [get]
func (c *PostController) GetFeed(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.FeedFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	feed, err := c.postService.ListFeed(ctx, actor, req.ScopeKind, req.Cursor, req.Limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feed))
}

// CreatePost handles publishing a new post
// @Summary Create a post
// @Description Publishes a post into a scope the authenticated actor belongs to. University-wide posts carry no target; other kinds default to the author's own attribute.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post content and scope"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse} "Post created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or scope"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Publishing outside own scope"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	post, err := c.postService.CreatePost(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post))
}

// GetPost handles retrieving a single post
// @Summary Get a post
// @Description Retrieves a single post with counters and viewer engagement state. Posts outside the actor's scope are reported as not found.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse} "Post retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid post ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	post, err := c.postService.GetPost(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post))
}

// UpdatePost handles editing a post's content
// @Summary Update a post
// @Description Replaces a post's content. Only the author may edit; scope is fixed at creation.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.UpdatePostRequest true "New content"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse} "Post updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id} [put]
func (c *PostController) UpdatePost(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	post, err := c.postService.UpdatePost(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post))
}

// DeletePost handles removing a post
// @Summary Delete a post
// @Description Removes a post with its comments and engagement edges. The author or a moderator for the post's scope kind may delete.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Post deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid post ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not the author or a moderator"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.DeletePost(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Post deleted"}))
}

// GetRepostedPosts handles listing the posts an actor has reposted
// @Summary Get an actor's reposts
// @Description Retrieves the posts an actor has reposted, restricted to what the requesting viewer may see, newest first with cursor pagination.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Actor ID"
// @Param cursor query string false "Opaque cursor from the previous page"
// @Param limit query int false "Page size (default: 20, max: 100)" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.FeedResponse} "Reposted posts retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid actor ID or cursor"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /actors/{id}/reposts [get]
func (c *PostController) GetRepostedPosts(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	reposterID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	limit := helpers.ParseLimitParam(ctx, 0, 0)
	feed, err := c.postService.ListReposted(ctx, actor, reposterID, ctx.Query("cursor"), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feed))
}

// parseIDParam extracts a positive integer path parameter, responding with a
// validation error on failure.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter").
			WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func respondUnauthenticated(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

func respondBindingError(ctx *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request")

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		validation := dto.NewValidationErrors()
		for _, fe := range fieldErrs {
			validation.AddError(fe.Field(), fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
		}
		errorDetail = errorDetail.WithDetails(validation.Errors)
	} else {
		errorDetail = errorDetail.WithDetails(err.Error())
	}

	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
