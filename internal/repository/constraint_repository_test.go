package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-suite/timetable-api/internal/models"
)

func TestConstraintRepositoryListOrdered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	rows := sqlmock.NewRows([]string{"key", "name", "importance", "active", "position", "updated_at"}).
		AddRow("commute_time", "Commute time", "important", true, 1, time.Now()).
		AddRow("teacher_day_minimization", "Teacher day minimization", "less_important", false, 2, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, name, importance, active, position, updated_at FROM constraints ORDER BY position")).
		WillReturnRows(rows)

	entries, err := repo.ListOrdered(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "commute_time", entries[0].Key)
	assert.Equal(t, 1, entries[0].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintRepositoryUpdateWeighting(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE constraints SET importance = $2, active = $3, updated_at = $4 WHERE key = $1")).
		WithArgs("commute_time", "very_important", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateWeighting(context.Background(), "commute_time", models.ImportanceVeryImportant, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintRepositorySeedSkipsExisting(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	mock.ExpectExec("INSERT INTO constraints").
		WithArgs("commute_time", "Commute time", "important", true, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	entries := []models.Constraint{{Key: "commute_time", Name: "Commute time", Importance: models.ImportanceImportant, Active: true, Position: 1}}
	require.NoError(t, repo.Seed(context.Background(), entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}
