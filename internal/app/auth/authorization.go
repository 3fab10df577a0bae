package auth

import (
	"github.com/talabahamkor/choyxona/internal/app/models"
)

// ModerationAuthority answers moderation-capability questions about actors.
// Capabilities arrive as a resolved scope set on the Actor itself (set once
// at the auth boundary from token claims); this service only interprets them.
type ModerationAuthority struct{}

// NewModerationAuthority creates a new ModerationAuthority
func NewModerationAuthority() *ModerationAuthority {
	return &ModerationAuthority{}
}

// scopeForKind maps a scope kind to the moderator scope that covers exactly it.
func scopeForKind(kind models.ScopeKind) models.ModeratorScope {
	switch kind {
	case models.ScopeUniversity:
		return models.ModeratorScopeUniversity
	case models.ScopeFaculty:
		return models.ModeratorScopeFaculty
	case models.ScopeSpecialty:
		return models.ModeratorScopeSpecialty
	case models.ScopeGroup:
		return models.ModeratorScopeGroup
	}
	return ""
}

// IsModerator reports whether the actor may moderate content published at
// the given scope kind. Global and university-wide capabilities cover every
// kind; otherwise the capability must match the kind exactly. Moderation
// never crosses universities.
func (m *ModerationAuthority) IsModerator(actor *models.Actor, kind models.ScopeKind) bool {
	if actor == nil {
		return false
	}
	if actor.HasModScope(models.ModeratorScopeGlobal) || actor.HasModScope(models.ModeratorScopeUniversity) {
		return true
	}
	s := scopeForKind(kind)
	return s != "" && actor.HasModScope(s)
}
