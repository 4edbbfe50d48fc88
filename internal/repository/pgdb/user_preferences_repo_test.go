package pgdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
)

var prefsColumns = []string{
	"user_id", "favorite_colors", "preferred_styles", "preferred_categories", "created_at", "updated_at",
}

func newMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock
}

func TestUserPreferencesRepo_FetchUser(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)

	t.Run("found", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectQuery(`SELECT user_id, favorite_colors .* FROM user_preferences`).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows(prefsColumns).
				AddRow(int64(7), "red", "casual", "tshirt", createdAt, &updatedAt))

		got, err := NewUserPreferencesRepo(mock).FetchUser(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.UserID != 7 || got.FavoriteColors != "red" || got.PreferredStyles != "casual" || got.PreferredCategories != "tshirt" {
			t.Errorf("prefs = %+v", got)
		}
		if !got.CreatedAt.Equal(createdAt) || got.UpdatedAt == nil || !got.UpdatedAt.Equal(updatedAt) {
			t.Errorf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("no rows maps to ErrUserNotFound", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectQuery(`FROM user_preferences`).
			WithArgs(int64(8)).
			WillReturnRows(pgxmock.NewRows(prefsColumns))

		_, err := NewUserPreferencesRepo(mock).FetchUser(context.Background(), 8)
		if !errors.Is(err, e.ErrUserNotFound) {
			t.Errorf("error = %v, want ErrUserNotFound", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("driver error is passed through", func(t *testing.T) {
		mock := newMockDB(t)
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(`FROM user_preferences`).
			WithArgs(int64(9)).
			WillReturnError(dbErr)

		_, err := NewUserPreferencesRepo(mock).FetchUser(context.Background(), 9)
		if !errors.Is(err, dbErr) || errors.Is(err, e.ErrUserNotFound) {
			t.Errorf("error = %v, want %v", err, dbErr)
		}
	})
}

func TestUserPreferencesRepo_Upsert(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(24 * time.Hour)
	upsertColumns := append(append([]string{}, prefsColumns...), "no_changes")

	prefs := &domain.UserPreferences{
		UserID:              7,
		FavoriteColors:      "red,blue",
		PreferredStyles:     "casual",
		PreferredCategories: "tshirt",
	}

	tests := []struct {
		name          string
		noChanges     bool
		updatedAt     *time.Time
		wantUpdatedAt bool
	}{
		{name: "new or changed row", noChanges: false, updatedAt: &updatedAt, wantUpdatedAt: true},
		{name: "same values leave the row untouched", noChanges: true, updatedAt: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockDB(t)
			mock.ExpectBeginTx(pgx.TxOptions{})
			mock.ExpectQuery(`WITH upsert AS \(\s*INSERT INTO user_preferences`).
				WithArgs(int64(7), "red,blue", "casual", "tshirt").
				WillReturnRows(pgxmock.NewRows(upsertColumns).
					AddRow(int64(7), "red,blue", "casual", "tshirt", createdAt, tt.updatedAt, tt.noChanges))
			mock.ExpectCommit()

			res, err := NewUserPreferencesRepo(mock).Upsert(context.Background(), prefs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.NoChanges != tt.noChanges {
				t.Errorf("NoChanges = %v, want %v", res.NoChanges, tt.noChanges)
			}
			if res.Preferences.UserID != 7 || res.Preferences.FavoriteColors != "red,blue" {
				t.Errorf("prefs = %+v", res.Preferences)
			}
			if !res.Preferences.CreatedAt.Equal(createdAt) {
				t.Errorf("CreatedAt = %v, want %v", res.Preferences.CreatedAt, createdAt)
			}
			if (res.Preferences.UpdatedAt != nil) != tt.wantUpdatedAt {
				t.Errorf("UpdatedAt = %v, want set %v", res.Preferences.UpdatedAt, tt.wantUpdatedAt)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}

	t.Run("query error rolls back", func(t *testing.T) {
		mock := newMockDB(t)
		dbErr := errors.New("deadlock detected")
		mock.ExpectBeginTx(pgx.TxOptions{})
		mock.ExpectQuery(`WITH upsert AS`).
			WithArgs(int64(7), "red,blue", "casual", "tshirt").
			WillReturnError(dbErr)
		mock.ExpectRollback()

		_, err := NewUserPreferencesRepo(mock).Upsert(context.Background(), prefs)
		if !errors.Is(err, dbErr) {
			t.Errorf("error = %v, want %v", err, dbErr)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("begin error", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectBeginTx(pgx.TxOptions{}).WillReturnError(errors.New("pool closed"))

		if _, err := NewUserPreferencesRepo(mock).Upsert(context.Background(), prefs); err == nil {
			t.Error("expected error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}
