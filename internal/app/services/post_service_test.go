package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/app/models/dto"
	"github.com/talabahamkor/choyxona/internal/pkg/apperrors"
)

func TestPostService_CreateUniversityPostCarriesNoTarget(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	actor := studentActor(1)

	resp, err := env.posts.CreatePost(ctx, actor, &dto.CreatePostRequest{
		Content:   "campus-wide announcement",
		ScopeKind: "university",
		// Target is ignored for university-wide posts
		ScopeTargetID: int64Ptr(42),
	})
	require.NoError(t, err)
	assert.Equal(t, "university", resp.ScopeKind)
	assert.Nil(t, resp.ScopeTargetID)
}

func TestPostService_CreateDefaultsToOwnAttribute(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	actor := studentActor(1)

	resp, err := env.posts.CreatePost(ctx, actor, &dto.CreatePostRequest{
		Content:   "faculty news",
		ScopeKind: "faculty",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ScopeTargetID)
	assert.Equal(t, *actor.FacultyID, *resp.ScopeTargetID)
}

func TestPostService_CreateOutsideOwnScopeForbidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.posts.CreatePost(ctx, studentActor(1), &dto.CreatePostRequest{
		Content:       "not my group",
		ScopeKind:     "group",
		ScopeTargetID: int64Ptr(9999),
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestPostService_CreateModeratorMayTargetAnyUnit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	mod := moderatorActor(1, models.ModeratorScopeGroup)

	resp, err := env.posts.CreatePost(ctx, mod, &dto.CreatePostRequest{
		Content:       "notice for another group",
		ScopeKind:     "group",
		ScopeTargetID: int64Ptr(9999),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ScopeTargetID)
	assert.Equal(t, int64(9999), *resp.ScopeTargetID)
}

func TestPostService_CreateWithoutAttributeUnavailable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	actor := &models.Actor{ID: 1, UniversityID: 1}

	_, err := env.posts.CreatePost(ctx, actor, &dto.CreatePostRequest{
		Content:   "hello",
		ScopeKind: "group",
	})
	assert.ErrorIs(t, err, apperrors.ErrScopeUnavailable)
}

func TestPostService_CreateRejectsOversizedContent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.posts.CreatePost(ctx, studentActor(1), &dto.CreatePostRequest{
		Content:   strings.Repeat("x", 4001),
		ScopeKind: "university",
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestPostService_GetOutOfScopePostReportsNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	post := env.seedPost(1, models.ScopeGroup, int64Ptr(1000), time.Now())

	// Same university, different group
	other := studentActor(2)
	other.GroupID = int64Ptr(1001)

	_, err := env.posts.GetPost(ctx, other, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	// The author's groupmate sees it
	resp, err := env.posts.GetPost(ctx, studentActor(3), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, resp.ID)
}

func TestPostService_FeedWithoutAttributeIsEmpty(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPost(1, models.ScopeFaculty, int64Ptr(10), time.Now())

	actor := &models.Actor{ID: 2, UniversityID: 1}
	resp, err := env.posts.ListFeed(ctx, actor, "faculty", "", 20)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	assert.Empty(t, resp.NextCursor)
}

func TestPostService_FeedRejectsUnknownScopeKind(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.posts.ListFeed(ctx, studentActor(1), "dormitory", "", 20)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestPostService_FeedRejectsMalformedCursor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.posts.ListFeed(ctx, studentActor(1), "university", "not-a-cursor", 20)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestPostService_FeedPaginatesNewestFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	actor := studentActor(1)

	base := time.Now().Add(-time.Hour)
	var ids []int64
	for i := 0; i < 5; i++ {
		p := env.seedPost(1, models.ScopeUniversity, nil, base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, p.ID)
	}

	page1, err := env.posts.ListFeed(ctx, actor, "university", "", 2)
	require.NoError(t, err)
	require.Len(t, page1.Posts, 2)
	assert.Equal(t, ids[4], page1.Posts[0].ID)
	assert.Equal(t, ids[3], page1.Posts[1].ID)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := env.posts.ListFeed(ctx, actor, "university", page1.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, page2.Posts, 2)
	assert.Equal(t, ids[2], page2.Posts[0].ID)
	assert.Equal(t, ids[1], page2.Posts[1].ID)
	require.NotEmpty(t, page2.NextCursor)

	page3, err := env.posts.ListFeed(ctx, actor, "university", page2.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, page3.Posts, 1)
	assert.Equal(t, ids[0], page3.Posts[0].ID)
	assert.Empty(t, page3.NextCursor)
}

func TestPostService_FeedRestrictedToViewerScope(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	viewer := studentActor(1)

	own := env.seedPost(2, models.ScopeGroup, int64Ptr(1000), time.Now())
	env.seedPost(3, models.ScopeGroup, int64Ptr(1001), time.Now())
	env.seedPost(4, models.ScopeUniversity, nil, time.Now())

	page, err := env.posts.ListFeed(ctx, viewer, "group", "", 20)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, own.ID, page.Posts[0].ID)

	// A group moderator sees every group within the university
	mod := moderatorActor(5, models.ModeratorScopeGroup)
	page, err = env.posts.ListFeed(ctx, mod, "group", "", 20)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
}

func TestPostService_FeedMarksViewerEngagement(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	actor := studentActor(1)
	liked := env.seedPost(2, models.ScopeUniversity, nil, time.Now().Add(-time.Minute))
	env.seedPost(2, models.ScopeUniversity, nil, time.Now())

	_, err := env.engagement.LikePost(ctx, actor, liked.ID)
	require.NoError(t, err)
	_, err = env.engagement.RepostPost(ctx, actor, liked.ID)
	require.NoError(t, err)

	resp, err := env.posts.ListFeed(ctx, actor, "university", "", 20)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)

	for _, p := range resp.Posts {
		if p.ID == liked.ID {
			assert.True(t, p.ViewerHasLiked)
			assert.True(t, p.ViewerHasReposted)
			assert.Equal(t, int64(1), p.LikesCount)
			assert.Equal(t, int64(1), p.RepostsCount)
		} else {
			assert.False(t, p.ViewerHasLiked)
			assert.False(t, p.ViewerHasReposted)
		}
	}
}

func TestPostService_UpdateByNonAuthorForbidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	post := env.seedPost(1, models.ScopeUniversity, nil, time.Now())

	_, err := env.posts.UpdatePost(ctx, studentActor(2), post.ID, &dto.UpdatePostRequest{Content: "mine now"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	resp, err := env.posts.UpdatePost(ctx, studentActor(1), post.ID, &dto.UpdatePostRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", resp.Content)
}

func TestPostService_DeleteByAuthorOrModerator(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	post := env.seedPost(1, models.ScopeFaculty, int64Ptr(10), time.Now())

	err := env.posts.DeletePost(ctx, studentActor(2), post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = env.posts.DeletePost(ctx, moderatorActor(3, models.ModeratorScopeFaculty), post.ID)
	require.NoError(t, err)

	_, err = env.posts.GetPost(ctx, studentActor(1), post.ID)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestPostService_DeleteRemovesEngagementEdges(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	actor := studentActor(1)
	env.seedProfile(actor.ID, "Aziza Karimova")
	post := env.seedPost(actor.ID, models.ScopeUniversity, nil, time.Now())

	_, err := env.engagement.LikePost(ctx, actor, post.ID)
	require.NoError(t, err)
	_, err = env.engagement.RepostPost(ctx, actor, post.ID)
	require.NoError(t, err)

	require.NoError(t, env.posts.DeletePost(ctx, actor, post.ID))

	resp, err := env.posts.ListReposted(ctx, actor, actor.ID, "", 20)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
}

func TestPostService_ListRepostedNewestFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	reposter := studentActor(1)
	env.seedProfile(reposter.ID, "Aziza Karimova")

	visible := env.seedPost(2, models.ScopeUniversity, nil, time.Now().Add(-time.Minute))
	groupOnly := env.seedPost(2, models.ScopeGroup, int64Ptr(1000), time.Now())

	_, err := env.engagement.RepostPost(ctx, reposter, visible.ID)
	require.NoError(t, err)
	_, err = env.engagement.RepostPost(ctx, reposter, groupOnly.ID)
	require.NoError(t, err)

	resp, err := env.posts.ListReposted(ctx, reposter, reposter.ID, "", 20)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)
	assert.Equal(t, groupOnly.ID, resp.Posts[0].ID)
	assert.Equal(t, visible.ID, resp.Posts[1].ID)
}

func TestPostService_ListRepostedUnknownActorReportsNotFound(t *testing.T) {
	env := newTestEnv()
	viewer := studentActor(1)

	_, err := env.posts.ListReposted(context.Background(), viewer, 404, "", 20)
	assert.ErrorIs(t, err, apperrors.ErrActorNotFound)
}

func TestPostService_ResponsesCarryAuthorProfiles(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	actor := studentActor(1)
	env.seedProfile(actor.ID, "Bobur Toshmatov")

	resp, err := env.posts.CreatePost(ctx, actor, &dto.CreatePostRequest{
		Content:   "hello",
		ScopeKind: "university",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Author)
	assert.Equal(t, "Bobur Toshmatov", resp.Author.FullName)
}
