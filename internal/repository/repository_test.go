package repository_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/backend/internal/db"
	"tempo/backend/internal/model"
	"tempo/backend/internal/repository"
	"tempo/backend/internal/state"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "tempo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), database, db.MigrationSource("")))
	return database
}

func TestMigrationsAreIdempotent(t *testing.T) {
	database := openTestDB(t)
	require.NoError(t, db.RunMigrations(context.Background(), database, db.MigrationSource("")))

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestStateRepositoryLoadSave(t *testing.T) {
	repo := repository.NewStateRepository(openTestDB(t))
	ctx := context.Background()

	_, err := repo.Load(ctx, state.NamespaceTimer)
	assert.ErrorIs(t, err, state.ErrNotFound)

	require.NoError(t, repo.Save(ctx, state.NamespaceTimer, []byte(`{"status":"Focus"}`)))
	require.NoError(t, repo.Save(ctx, state.NamespaceTimer, []byte(`{"status":"Break"}`)))
	require.NoError(t, repo.Save(ctx, state.NamespaceReviews, []byte(`[]`)))

	payload, err := repo.Load(ctx, state.NamespaceTimer)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Break"}`, string(payload))

	payload, err = repo.Load(ctx, state.NamespaceReviews)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))
}

func TestSessionRepositoryFilters(t *testing.T) {
	database := openTestDB(t)
	labels := repository.NewLabelRepository(database)
	sessions := repository.NewSessionRepository(database)
	ctx := context.Background()

	study := model.Label{Name: "Study"}
	require.NoError(t, labels.Create(ctx, &study))

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	seed := []model.CompletedSession{
		{DurationMinutes: 25, CompletedAt: base},
		{DurationMinutes: 25, CompletedAt: base.Add(30 * time.Minute), LabelID: &study.ID},
		{DurationMinutes: 10, CompletedAt: base.Add(24*time.Hour + 500*time.Millisecond), LabelID: &study.ID},
	}
	for i := range seed {
		require.NoError(t, sessions.Create(ctx, &seed[i]))
		require.NotZero(t, seed[i].ID)
	}

	all, err := sessions.List(ctx, model.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, seed[2].ID, all[0].ID)
	assert.Equal(t, "Study", all[0].LabelName)
	assert.Equal(t, seed[2].CompletedAt, all[0].CompletedAt)
	assert.Nil(t, all[2].LabelID)

	from := base.Add(time.Minute)
	to := base.Add(24 * time.Hour)
	window, err := sessions.List(ctx, model.SessionFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, seed[1].ID, window[0].ID)

	labeled, err := sessions.List(ctx, model.SessionFilter{LabelID: &study.ID})
	require.NoError(t, err)
	assert.Len(t, labeled, 2)
}

func TestDeletingLabelKeepsSessions(t *testing.T) {
	database := openTestDB(t)
	labels := repository.NewLabelRepository(database)
	sessions := repository.NewSessionRepository(database)
	ctx := context.Background()

	label := model.Label{Name: "Reading"}
	require.NoError(t, labels.Create(ctx, &label))
	require.NoError(t, sessions.Create(ctx, &model.CompletedSession{
		DurationMinutes: 25,
		CompletedAt:     time.Now(),
		LabelID:         &label.ID,
	}))

	require.NoError(t, labels.Delete(ctx, label.ID))
	assert.ErrorIs(t, labels.Delete(ctx, label.ID), repository.ErrNotFound)

	all, err := sessions.List(ctx, model.SessionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Nil(t, all[0].LabelID)
	assert.Empty(t, all[0].LabelName)
}

func TestLabelRepository(t *testing.T) {
	labels := repository.NewLabelRepository(openTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Work", "Admin", "Study"} {
		require.NoError(t, labels.Create(ctx, &model.Label{Name: name}))
	}
	assert.ErrorIs(t, labels.Create(ctx, &model.Label{Name: "Work"}), repository.ErrDuplicate)

	list, err := labels.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Admin", list[0].Name)
	assert.Equal(t, "Work", list[2].Name)

	found, err := labels.GetByName(ctx, "Study")
	require.NoError(t, err)
	byID, err := labels.GetByID(ctx, found.ID)
	require.NoError(t, err)
	assert.Equal(t, *found, *byID)

	_, err = labels.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMigrationsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_notes.sql"), []byte(`CREATE TABLE notes (id INTEGER PRIMARY KEY);`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a migration"), 0o600))

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "nested", "tempo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), database, db.MigrationSource(dir)))

	_, err = database.Exec(`INSERT INTO notes (id) VALUES (1)`)
	require.NoError(t, err)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 1, count)
}
