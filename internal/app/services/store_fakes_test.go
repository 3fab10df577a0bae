package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"github.com/talabahamkor/choyxona/internal/app/auth"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/pkg/apperrors"
	"github.com/talabahamkor/choyxona/internal/pkg/cache"
	"github.com/talabahamkor/choyxona/internal/pkg/helpers"
	"github.com/talabahamkor/choyxona/internal/pkg/notifications"
)

type edgeKey struct {
	actorID  int64
	kind     models.EngagementKind
	targetID int64
}

// memStore is an in-memory implementation of PostStore, CommentStore,
// EngagementStore and ProfileStore sharing one dataset. It reproduces the
// database contracts the services rely on: the engagement uniqueness
// constraint, edge and counter updates under one lock, and the comment
// ordering.
type memStore struct {
	mu            sync.Mutex
	posts         map[int64]*models.Post
	comments      map[int64]*models.Comment
	profiles      map[int64]*models.ActorProfile
	edges         map[edgeKey]struct{}
	nextPostID    int64
	nextCommentID int64
}

func newMemStore() *memStore {
	return &memStore{
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
		profiles: make(map[int64]*models.ActorProfile),
		edges:    make(map[edgeKey]struct{}),
	}
}

// --- PostStore ---

func (m *memStore) Create(ctx context.Context, post *models.Post) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPostID++
	post.ID = m.nextPostID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.UpdatedAt = post.CreatedAt
	clone := *post
	m.posts[post.ID] = &clone
	return post.ID, nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	clone := *post
	return &clone, nil
}

func (m *memStore) UpdateContent(ctx context.Context, id int64, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	post.Content = content
	post.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(m.posts, id)

	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
			m.dropEdgesLocked(models.EngagementCommentLike, cid)
		}
	}
	m.dropEdgesLocked(models.EngagementPostLike, id)
	m.dropEdgesLocked(models.EngagementPostView, id)
	m.dropEdgesLocked(models.EngagementPostRepost, id)
	return nil
}

func (m *memStore) ListFeed(ctx context.Context, pred auth.Predicate, cursor *helpers.FeedCursor, limit int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageLocked(func(p *models.Post) bool { return matchesPredicate(pred, p) }, cursor, limit), nil
}

func (m *memStore) ListRepostedBy(ctx context.Context, actorID int64, pred auth.Predicate, cursor *helpers.FeedCursor, limit int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageLocked(func(p *models.Post) bool {
		if _, ok := m.edges[edgeKey{actorID, models.EngagementPostRepost, p.ID}]; !ok {
			return false
		}
		return matchesPredicate(pred, p)
	}, cursor, limit), nil
}

// matchesPredicate interprets the visibility predicate against an in-memory
// post row, so the fakes enforce the same scoping the SQL store would.
func matchesPredicate(pred auth.Predicate, p *models.Post) bool {
	if pred.MatchesNothing() {
		return false
	}
	return evalCond(pred.Sqlizer(), p)
}

func evalCond(cond squirrel.Sqlizer, p *models.Post) bool {
	switch c := cond.(type) {
	case squirrel.And:
		for _, sub := range c {
			if !evalCond(sub, p) {
				return false
			}
		}
		return true
	case squirrel.Or:
		for _, sub := range c {
			if evalCond(sub, p) {
				return true
			}
		}
		return false
	case squirrel.Eq:
		for column, want := range c {
			if !columnEquals(p, column, want) {
				return false
			}
		}
		return true
	}
	return false
}

func columnEquals(p *models.Post, column string, want interface{}) bool {
	switch column {
	case "university_id":
		return p.UniversityID == want.(int64)
	case "scope_kind":
		return string(p.ScopeKind) == want.(string)
	case "scope_target_id":
		if want == nil {
			return p.ScopeTargetID == nil
		}
		return p.ScopeTargetID != nil && *p.ScopeTargetID == want.(int64)
	}
	return false
}

func (m *memStore) pageLocked(match func(*models.Post) bool, cursor *helpers.FeedCursor, limit int) []models.Post {
	posts := []models.Post{}
	for _, p := range m.posts {
		if !match(p) {
			continue
		}
		if cursor != nil {
			older := p.CreatedAt.Before(cursor.CreatedAt) ||
				(p.CreatedAt.Equal(cursor.CreatedAt) && p.ID < cursor.ID)
			if !older {
				continue
			}
		}
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

// --- CommentStore ---

func (m *memStore) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[comment.PostID]
	if !ok {
		return 0, apperrors.ErrPostNotFound
	}

	m.nextCommentID++
	comment.ID = m.nextCommentID
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	comment.UpdatedAt = comment.CreatedAt
	clone := *comment
	m.comments[comment.ID] = &clone
	post.CommentsCount++
	return comment.ID, nil
}

func (m *memStore) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment, ok := m.comments[id]
	if !ok {
		return nil, apperrors.ErrCommentNotFound
	}
	clone := *comment
	return &clone, nil
}

func (m *memStore) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comments := []models.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].LikesCount != comments[j].LikesCount {
			return comments[i].LikesCount > comments[j].LikesCount
		}
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (m *memStore) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.comments[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (m *memStore) UpdateCommentContent(ctx context.Context, id int64, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment, ok := m.comments[id]
	if !ok {
		return apperrors.ErrCommentNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) DeleteComment(ctx context.Context, id int64, postID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[id]; !ok {
		return apperrors.ErrCommentNotFound
	}
	delete(m.comments, id)
	m.dropEdgesLocked(models.EngagementCommentLike, id)

	if post, ok := m.posts[postID]; ok && post.CommentsCount > 0 {
		post.CommentsCount--
	}
	return nil
}

// --- EngagementStore ---

func (m *memStore) Engage(ctx context.Context, actorID int64, kind models.EngagementKind, targetID int64) (*models.EngagementResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, err := m.counterLocked(kind, targetID)
	if err != nil {
		return nil, err
	}

	key := edgeKey{actorID, kind, targetID}
	if _, exists := m.edges[key]; exists {
		return &models.EngagementResult{AlreadyExisted: true, NewCount: *counter}, nil
	}

	m.edges[key] = struct{}{}
	*counter++
	return &models.EngagementResult{NewCount: *counter}, nil
}

func (m *memStore) Disengage(ctx context.Context, actorID int64, kind models.EngagementKind, targetID int64) (*models.EngagementResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter, err := m.counterLocked(kind, targetID)
	if err != nil {
		return nil, err
	}

	key := edgeKey{actorID, kind, targetID}
	if _, exists := m.edges[key]; !exists {
		return &models.EngagementResult{AlreadyExisted: true, NewCount: *counter}, nil
	}

	delete(m.edges, key)
	if *counter > 0 {
		*counter--
	}
	return &models.EngagementResult{NewCount: *counter}, nil
}

func (m *memStore) BatchEngaged(ctx context.Context, actorID int64, kind models.EngagementKind, targetIDs []int64) (map[int64]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	engaged := make(map[int64]bool, len(targetIDs))
	for _, id := range targetIDs {
		if _, ok := m.edges[edgeKey{actorID, kind, id}]; ok {
			engaged[id] = true
		}
	}
	return engaged, nil
}

func (m *memStore) ReconcileCounters(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[edgeKey]int64)
	for key := range m.edges {
		counts[edgeKey{0, key.kind, key.targetID}]++
	}

	var corrected int64
	for id, post := range m.posts {
		likes := counts[edgeKey{0, models.EngagementPostLike, id}]
		views := counts[edgeKey{0, models.EngagementPostView, id}]
		reposts := counts[edgeKey{0, models.EngagementPostRepost, id}]
		var comments int64
		for _, c := range m.comments {
			if c.PostID == id {
				comments++
			}
		}

		if post.LikesCount != likes {
			post.LikesCount = likes
			corrected++
		}
		if post.ViewsCount != views {
			post.ViewsCount = views
			corrected++
		}
		if post.RepostsCount != reposts {
			post.RepostsCount = reposts
			corrected++
		}
		if post.CommentsCount != comments {
			post.CommentsCount = comments
			corrected++
		}
	}

	for id, comment := range m.comments {
		likes := counts[edgeKey{0, models.EngagementCommentLike, id}]
		if comment.LikesCount != likes {
			comment.LikesCount = likes
			corrected++
		}
	}

	return corrected, nil
}

func (m *memStore) counterLocked(kind models.EngagementKind, targetID int64) (*int64, error) {
	switch kind {
	case models.EngagementPostLike:
		if post, ok := m.posts[targetID]; ok {
			return &post.LikesCount, nil
		}
		return nil, apperrors.ErrPostNotFound
	case models.EngagementPostView:
		if post, ok := m.posts[targetID]; ok {
			return &post.ViewsCount, nil
		}
		return nil, apperrors.ErrPostNotFound
	case models.EngagementPostRepost:
		if post, ok := m.posts[targetID]; ok {
			return &post.RepostsCount, nil
		}
		return nil, apperrors.ErrPostNotFound
	case models.EngagementCommentLike:
		if comment, ok := m.comments[targetID]; ok {
			return &comment.LikesCount, nil
		}
		return nil, apperrors.ErrCommentNotFound
	}
	return nil, apperrors.ErrUnknownEngagementKind
}

func (m *memStore) dropEdgesLocked(kind models.EngagementKind, targetID int64) {
	for key := range m.edges {
		if key.kind == kind && key.targetID == targetID {
			delete(m.edges, key)
		}
	}
}

// --- ProfileStore ---

func (m *memStore) GetProfiles(ctx context.Context, ids []int64) (map[int64]*models.ActorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profiles := make(map[int64]*models.ActorProfile, len(ids))
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			clone := *p
			profiles[id] = &clone
		}
	}
	return profiles, nil
}

func (m *memStore) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.profiles[id]
	return ok, nil
}

// fakeComments adapts memStore's comment methods to the CommentStore
// interface, whose method names collide with PostStore's.
type fakeComments struct {
	m *memStore
}

func (f fakeComments) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	return f.m.CreateComment(ctx, comment)
}

func (f fakeComments) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	return f.m.GetCommentByID(ctx, id)
}

func (f fakeComments) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	return f.m.ListByPost(ctx, postID)
}

func (f fakeComments) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return f.m.ExistingIDs(ctx, ids)
}

func (f fakeComments) UpdateContent(ctx context.Context, id int64, content string) error {
	return f.m.UpdateCommentContent(ctx, id, content)
}

func (f fakeComments) Delete(ctx context.Context, id int64, postID int64) error {
	return f.m.DeleteComment(ctx, id, postID)
}

// failingPostStore wraps a PostStore with a GetByID that always fails,
// standing in for an unreachable database.
type failingPostStore struct {
	PostStore
	err error
}

func (s failingPostStore) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return nil, s.err
}

// recordingNotifier captures events for assertions
type recordingNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (n *recordingNotifier) Notify(ctx context.Context, event notifications.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []notifications.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notifications.Event, len(n.events))
	copy(out, n.events)
	return out
}

// testEnv wires every service onto one shared in-memory store
type testEnv struct {
	store      *memStore
	notifier   *recordingNotifier
	posts      PostService
	comments   CommentService
	engagement EngagementService
	reconciler *Reconciler
}

func newTestEnv() *testEnv {
	store := newMemStore()
	notifier := &recordingNotifier{}
	authority := auth.NewModerationAuthority()
	resolver := auth.NewVisibilityResolver(authority)
	profiles := cache.NewProfileCache(128, time.Minute)
	lgr := zerolog.Nop()

	settings := FeedSettings{DefaultPageSize: 20, MaxPageSize: 100, MaxContentLen: 4000}
	comments := fakeComments{m: store}

	return &testEnv{
		store:      store,
		notifier:   notifier,
		posts:      NewPostService(store, store, store, resolver, authority, profiles, settings, lgr),
		comments:   NewCommentService(store, comments, store, store, resolver, authority, profiles, notifier, lgr),
		engagement: NewEngagementService(store, comments, store, resolver, notifier, lgr),
		reconciler: NewReconciler(store, ReconcilerSettings{Enabled: true, Interval: 10 * time.Millisecond}, lgr),
	}
}

func (e *testEnv) seedPost(authorID int64, kind models.ScopeKind, target *int64, createdAt time.Time) *models.Post {
	post := &models.Post{
		AuthorID:      authorID,
		UniversityID:  1,
		ScopeKind:     kind,
		ScopeTargetID: target,
		Content:       "seed content",
		CreatedAt:     createdAt,
	}
	if _, err := e.store.Create(context.Background(), post); err != nil {
		panic(err)
	}
	return post
}

func (e *testEnv) seedProfile(id int64, fullName string) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.profiles[id] = &models.ActorProfile{ID: id, FullName: fullName}
}

// studentActor belongs to university 1, faculty 10, specialty 100, group 1000
func studentActor(id int64) *models.Actor {
	return &models.Actor{
		ID:           id,
		UniversityID: 1,
		FacultyID:    int64Ptr(10),
		SpecialtyID:  int64Ptr(100),
		GroupID:      int64Ptr(1000),
	}
}

// outsiderActor belongs to a different university
func outsiderActor(id int64) *models.Actor {
	return &models.Actor{
		ID:           id,
		UniversityID: 2,
		FacultyID:    int64Ptr(20),
		SpecialtyID:  int64Ptr(200),
		GroupID:      int64Ptr(2000),
	}
}

func moderatorActor(id int64, scope models.ModeratorScope) *models.Actor {
	actor := studentActor(id)
	actor.ModScopes = []models.ModeratorScope{scope}
	return actor
}

func int64Ptr(v int64) *int64 {
	return &v
}
