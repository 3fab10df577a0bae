package auth

import (
	"github.com/Masterminds/squirrel"
	"github.com/talabahamkor/choyxona/internal/app/models"
)

// Predicate is the query restriction the feed applies for one actor and one
// requested scope kind. It is a pure value: resolving it has no side effects
// and it can be composed into any posts query.
type Predicate struct {
	matchNone bool
	cond      squirrel.Sqlizer
}

// MatchesNothing reports whether the predicate can never select a row.
// Callers short-circuit to an empty page instead of querying; absence of a
// scope attribute degrades to "no results", never an error.
func (p Predicate) MatchesNothing() bool {
	return p.matchNone
}

// Sqlizer returns the predicate as a squirrel condition over the posts table.
func (p Predicate) Sqlizer() squirrel.Sqlizer {
	if p.matchNone {
		// Contradiction kept for completeness; callers are expected to
		// check MatchesNothing first.
		return squirrel.Expr("1=0")
	}
	return p.cond
}

// VisibilityResolver computes, for an actor and a requested scope kind, the
// predicate selecting the posts that actor may see, and decides moderator
// bypass via the ModerationAuthority.
type VisibilityResolver struct {
	authority *ModerationAuthority
}

// NewVisibilityResolver creates a new VisibilityResolver
func NewVisibilityResolver(authority *ModerationAuthority) *VisibilityResolver {
	return &VisibilityResolver{authority: authority}
}

// Resolve computes the visibility predicate for the actor at the requested
// scope kind.
//
// Every predicate is bound to the actor's university and the requested
// scope_kind. Moderators stop there (no target narrowing); everyone else is
// additionally restricted to their own attribute for the kind. University
// scope accepts NULL targets, which mark university-wide posts.
func (r *VisibilityResolver) Resolve(actor *models.Actor, kind models.ScopeKind) Predicate {
	cond := squirrel.And{
		squirrel.Eq{"university_id": actor.UniversityID},
		squirrel.Eq{"scope_kind": string(kind)},
	}

	if r.authority.IsModerator(actor, kind) {
		return Predicate{cond: cond}
	}

	attr := actor.ScopeAttribute(kind)
	if attr == nil {
		return Predicate{matchNone: true}
	}

	if kind == models.ScopeUniversity {
		// University-wide posts never carry a target.
		cond = append(cond, squirrel.Eq{"scope_target_id": nil})
	} else {
		cond = append(cond, squirrel.Eq{"scope_target_id": *attr})
	}

	return Predicate{cond: cond}
}

// ResolveAny computes the predicate selecting every post the actor may see
// regardless of scope kind. Used for listings that cross kinds, like the
// posts an actor has reposted.
func (r *VisibilityResolver) ResolveAny(actor *models.Actor) Predicate {
	var alternatives squirrel.Or
	for _, kind := range models.AllScopeKinds() {
		p := r.Resolve(actor, kind)
		if !p.MatchesNothing() {
			alternatives = append(alternatives, p.Sqlizer())
		}
	}

	if len(alternatives) == 0 {
		return Predicate{matchNone: true}
	}
	return Predicate{cond: alternatives}
}

// Visible reports whether a single post falls inside the actor's resolved
// scope. It mirrors Resolve for the post's own scope kind; write paths use
// it before engaging or commenting.
func (r *VisibilityResolver) Visible(actor *models.Actor, post *models.Post) bool {
	if post.UniversityID != actor.UniversityID {
		return false
	}

	if r.authority.IsModerator(actor, post.ScopeKind) {
		return true
	}

	attr := actor.ScopeAttribute(post.ScopeKind)
	if attr == nil {
		return false
	}

	if post.ScopeTargetID == nil {
		// NULL target marks a university-wide post.
		return post.ScopeKind == models.ScopeUniversity
	}
	return *post.ScopeTargetID == *attr
}
