package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// CreateDefaultData inserts development actors and a few sample posts so a
// fresh database has something to browse. Safe to run repeatedly.
func CreateDefaultData(ctx context.Context, db *pgxpool.Pool, lgr zerolog.Logger) error {
	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM actors`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check actors table: %w", err)
	}
	if count > 0 {
		lgr.Debug().Msg("Seed data already present, skipping")
		return nil
	}

	lgr.Info().Msg("Seeding development data...")

	actors := []struct {
		id           int64
		fullName     string
		username     string
		universityID int64
		facultyID    *int64
		specialtyID  *int64
		groupID      *int64
	}{
		{1, "Aziza Karimova", "aziza", 1, ptr(10), ptr(100), ptr(1000)},
		{2, "Bobur Toshmatov", "bobur", 1, ptr(10), ptr(101), ptr(1001)},
		{3, "Dilnoza Rahimova", "dilnoza", 1, ptr(11), ptr(110), ptr(1100)},
		{4, "Eldor Yusupov", "eldor", 1, nil, nil, nil},
		{5, "Feruza Nazarova", "feruza", 2, ptr(20), ptr(200), ptr(2000)},
	}

	for _, a := range actors {
		_, err := db.Exec(ctx, `
			INSERT INTO actors (id, full_name, username, university_id, faculty_id, specialty_id, group_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`, a.id, a.fullName, a.username, a.universityID, a.facultyID, a.specialtyID, a.groupID)
		if err != nil {
			return fmt.Errorf("failed to seed actor %d: %w", a.id, err)
		}
	}

	posts := []struct {
		authorID      int64
		universityID  int64
		scopeKind     string
		scopeTargetID *int64
		content       string
	}{
		{1, 1, "university", nil, "Welcome to the new semester! The library now stays open until midnight during exam weeks."},
		{1, 1, "faculty", ptr(10), "Faculty volleyball tryouts are on Thursday at the main gym."},
		{2, 1, "group", ptr(1001), "Does anyone have notes from yesterday's algorithms lecture?"},
		{3, 1, "faculty", ptr(11), "Reminder: course registration for electives closes on Friday."},
		{5, 2, "university", nil, "The student council is collecting proposals for the spring festival."},
	}

	for _, p := range posts {
		_, err := db.Exec(ctx, `
			INSERT INTO posts (author_id, university_id, scope_kind, scope_target_id, content)
			VALUES ($1, $2, $3, $4, $5)
		`, p.authorID, p.universityID, p.scopeKind, p.scopeTargetID, p.content)
		if err != nil {
			return fmt.Errorf("failed to seed post: %w", err)
		}
	}

	lgr.Info().Int("actors", len(actors)).Int("posts", len(posts)).Msg("Development data seeded")
	return nil
}

func ptr(v int64) *int64 {
	return &v
}
