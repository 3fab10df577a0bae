package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/talabahamkor/choyxona/internal/app/models"
	"github.com/talabahamkor/choyxona/internal/app/models/dto"
	"github.com/talabahamkor/choyxona/internal/pkg/cache"
)

// loadProfiles resolves author profiles for a page, serving from the cache
// and fetching only the misses. A failed fetch degrades to responses without
// author blocks rather than failing the page.
func loadProfiles(ctx context.Context, profiles *cache.ProfileCache, store ProfileStore, ids []int64, logger zerolog.Logger) map[int64]*models.ActorProfile {
	resolved := make(map[int64]*models.ActorProfile, len(ids))
	var misses []int64
	for _, id := range ids {
		if _, done := resolved[id]; done {
			continue
		}
		if profile, ok := profiles.Get(id); ok {
			resolved[id] = profile
		} else {
			resolved[id] = nil
			misses = append(misses, id)
		}
	}

	if len(misses) == 0 {
		return resolved
	}

	fetched, err := store.GetProfiles(ctx, misses)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load author profiles, responses will omit authors")
		return resolved
	}

	for id, profile := range fetched {
		resolved[id] = profile
		profiles.Put(profile)
	}

	return resolved
}

func toAuthorResponse(profile *models.ActorProfile) *dto.AuthorResponse {
	if profile == nil {
		return nil
	}
	return &dto.AuthorResponse{
		ID:        profile.ID,
		FullName:  profile.FullName,
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
	}
}
