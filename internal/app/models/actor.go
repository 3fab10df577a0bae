package models

// ModeratorScope identifies the reach of a moderation capability.
type ModeratorScope string

const (
	// ModeratorScopeGlobal grants moderation over every scope kind
	// within the actor's university.
	ModeratorScopeGlobal ModeratorScope = "global"

	ModeratorScopeUniversity ModeratorScope = "university"
	ModeratorScopeFaculty    ModeratorScope = "faculty"
	ModeratorScopeSpecialty  ModeratorScope = "specialty"
	ModeratorScopeGroup      ModeratorScope = "group"
)

// Actor is the caller identity supplied by the auth collaborator for every
// request. It carries the actor's organizational position and moderation
// capabilities, resolved once at the auth boundary; nothing downstream
// re-derives roles.
type Actor struct {
	ID           int64            `json:"id"`
	UniversityID int64            `json:"universityId"`
	FacultyID    *int64           `json:"facultyId,omitempty"`
	SpecialtyID  *int64           `json:"specialtyId,omitempty"`
	GroupID      *int64           `json:"groupId,omitempty"`
	ModScopes    []ModeratorScope `json:"moderatorScopes,omitempty"`
}

// ScopeAttribute returns the actor's own attribute value for a scope kind,
// or nil when the actor has no such attribute (no faculty assigned, etc.).
func (a *Actor) ScopeAttribute(kind ScopeKind) *int64 {
	switch kind {
	case ScopeUniversity:
		return &a.UniversityID
	case ScopeFaculty:
		return a.FacultyID
	case ScopeSpecialty:
		return a.SpecialtyID
	case ScopeGroup:
		return a.GroupID
	}
	return nil
}

// HasModScope reports whether the actor holds the given moderation scope.
func (a *Actor) HasModScope(scope ModeratorScope) bool {
	for _, s := range a.ModScopes {
		if s == scope {
			return true
		}
	}
	return false
}

// ActorProfile is the display projection of an actor maintained by the
// surrounding backend in the 'actors' table. This subsystem only reads it
// when enriching posts and comments with author information.
type ActorProfile struct {
	ID        int64   `json:"id" db:"id"`
	FullName  string  `json:"fullName" db:"full_name"`
	Username  *string `json:"username,omitempty" db:"username"`
	AvatarURL *string `json:"avatarUrl,omitempty" db:"avatar_url"`
}
