package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talabahamkor/choyxona/internal/app/models"
)

func testActor() *models.Actor {
	return &models.Actor{
		ID:           1,
		UniversityID: 1,
		FacultyID:    int64Ptr(10),
		SpecialtyID:  int64Ptr(100),
		GroupID:      int64Ptr(1000),
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func predicateSQL(t *testing.T, p Predicate) (string, []interface{}) {
	t.Helper()
	sql, args, err := p.Sqlizer().ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestVisibilityResolver_StudentPredicateBindsUniversityKindAndTarget(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())

	pred := r.Resolve(testActor(), models.ScopeGroup)
	require.False(t, pred.MatchesNothing())

	sql, args := predicateSQL(t, pred)
	assert.Contains(t, sql, "university_id")
	assert.Contains(t, sql, "scope_kind")
	assert.Contains(t, sql, "scope_target_id")
	assert.Contains(t, args, int64(1))
	assert.Contains(t, args, "group")
	assert.Contains(t, args, int64(1000))
}

func TestVisibilityResolver_UniversityScopeMatchesOnlyNullTargets(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())

	pred := r.Resolve(testActor(), models.ScopeUniversity)
	require.False(t, pred.MatchesNothing())

	sql, args := predicateSQL(t, pred)
	assert.Contains(t, sql, "scope_target_id IS NULL")
	assert.Equal(t, []interface{}{int64(1), "university"}, args)
}

func TestVisibilityResolver_MissingAttributeMatchesNothing(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())
	actor := &models.Actor{ID: 1, UniversityID: 1}

	pred := r.Resolve(actor, models.ScopeFaculty)
	assert.True(t, pred.MatchesNothing())

	// The contradiction predicate never selects rows even if queried
	sql, _ := predicateSQL(t, pred)
	assert.Equal(t, "1=0", sql)
}

func TestVisibilityResolver_ModeratorSkipsTargetNarrowing(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())
	actor := testActor()
	actor.ModScopes = []models.ModeratorScope{models.ModeratorScopeFaculty}

	pred := r.Resolve(actor, models.ScopeFaculty)
	require.False(t, pred.MatchesNothing())

	sql, _ := predicateSQL(t, pred)
	assert.Contains(t, sql, "university_id")
	assert.NotContains(t, sql, "scope_target_id")
}

func TestVisibilityResolver_ModeratorWithoutAttributeStillSees(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())
	actor := &models.Actor{
		ID:           1,
		UniversityID: 1,
		ModScopes:    []models.ModeratorScope{models.ModeratorScopeGroup},
	}

	pred := r.Resolve(actor, models.ScopeGroup)
	assert.False(t, pred.MatchesNothing())
}

func TestVisibilityResolver_ResolveAnyCombinesKinds(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())

	pred := r.ResolveAny(testActor())
	require.False(t, pred.MatchesNothing())

	sql, _ := predicateSQL(t, pred)
	assert.Contains(t, sql, " OR ")
}

func TestVisibilityResolver_ResolveAnySkipsMissingAttributes(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())

	// University membership alone still yields a usable predicate
	actor := &models.Actor{ID: 1, UniversityID: 1}
	pred := r.ResolveAny(actor)
	assert.False(t, pred.MatchesNothing())

	sql, args := predicateSQL(t, pred)
	assert.Contains(t, sql, "scope_kind")
	assert.Contains(t, args, "university")
	assert.NotContains(t, args, "faculty")
}

func TestVisibilityResolver_Visible(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())
	actor := testActor()

	cases := []struct {
		name string
		post *models.Post
		want bool
	}{
		{
			name: "university-wide post in own university",
			post: &models.Post{UniversityID: 1, ScopeKind: models.ScopeUniversity},
			want: true,
		},
		{
			name: "post from another university",
			post: &models.Post{UniversityID: 2, ScopeKind: models.ScopeUniversity},
			want: false,
		},
		{
			name: "own group",
			post: &models.Post{UniversityID: 1, ScopeKind: models.ScopeGroup, ScopeTargetID: int64Ptr(1000)},
			want: true,
		},
		{
			name: "another group",
			post: &models.Post{UniversityID: 1, ScopeKind: models.ScopeGroup, ScopeTargetID: int64Ptr(1001)},
			want: false,
		},
		{
			name: "null target outside university kind",
			post: &models.Post{UniversityID: 1, ScopeKind: models.ScopeFaculty},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Visible(actor, tc.post))
		})
	}
}

func TestVisibilityResolver_VisibleModeratorBypassStaysInUniversity(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())
	mod := testActor()
	mod.ModScopes = []models.ModeratorScope{models.ModeratorScopeGroup}

	otherGroup := &models.Post{UniversityID: 1, ScopeKind: models.ScopeGroup, ScopeTargetID: int64Ptr(1001)}
	assert.True(t, r.Visible(mod, otherGroup))

	otherUniversity := &models.Post{UniversityID: 2, ScopeKind: models.ScopeGroup, ScopeTargetID: int64Ptr(1001)}
	assert.False(t, r.Visible(mod, otherUniversity))
}

func TestVisibilityResolver_VisibleWithoutAttribute(t *testing.T) {
	r := NewVisibilityResolver(NewModerationAuthority())
	actor := &models.Actor{ID: 1, UniversityID: 1}

	post := &models.Post{UniversityID: 1, ScopeKind: models.ScopeFaculty, ScopeTargetID: int64Ptr(10)}
	assert.False(t, r.Visible(actor, post))
}
