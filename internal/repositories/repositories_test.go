package repositories

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/desertthunder/songfinder/internal/models"
	"github.com/desertthunder/songfinder/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func finished(query string, source models.Source, previewURL string) *models.Lookup {
	l := models.NewLookup(query, source)
	l.Succeed(previewURL, 2048)
	return l
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "lookups")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without sequence counter")
	}
}

func TestLookupRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewLookupRepository(setupTestDB(t))
		lookup := finished("Bodrum Akşamları", models.SourceHTTP, "https://p.scdn.co/mp3-preview/abc")

		if err := repo.Create(lookup); err != nil {
			t.Fatalf("failed to create lookup: %v", err)
		}

		if lookup.ID() == "" {
			t.Error("lookup ID should be set after creation")
		}
		if lookup.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", lookup.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewLookupRepository(setupTestDB(t))
		lookup := models.NewLookup("expired token", models.SourceCLI)
		lookup.Fail(shared.NewUpstreamError(http.StatusUnauthorized, "unauthorized, credential should be renewed"))

		if err := repo.Create(lookup); err != nil {
			t.Fatalf("failed to create lookup: %v", err)
		}

		got, err := repo.Get(lookup.ID())
		if err != nil {
			t.Fatalf("failed to get lookup: %v", err)
		}

		if got.Query() != "expired token" {
			t.Errorf("expected query %q, got %q", "expired token", got.Query())
		}
		if got.Status() != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", got.Status())
		}
		if got.ErrorKind() != string(shared.KindUpstreamHTTP) {
			t.Errorf("expected kind %s, got %s", shared.KindUpstreamHTTP, got.ErrorKind())
		}
		if got.Source() != models.SourceCLI {
			t.Errorf("expected source cli, got %s", got.Source())
		}
		if !got.CreatedAt().Equal(lookup.CreatedAt()) {
			t.Errorf("expected created_at %v, got %v", lookup.CreatedAt(), got.CreatedAt())
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewLookupRepository(setupTestDB(t))

		queries := []string{"first", "second", "third"}
		for _, q := range queries {
			if err := repo.Create(finished(q, models.SourceHTTP, "https://p.scdn.co/"+q)); err != nil {
				t.Fatalf("failed to create lookup: %v", err)
			}
		}
		failed := models.NewLookup("broken", models.SourceCLI)
		failed.Fail(shared.NewParseError("index out of range: index 0, array has size 0"))
		if err := repo.Create(failed); err != nil {
			t.Fatalf("failed to create lookup: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list lookups: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 lookups, got %d", len(all))
		}
		if all[0].Query() != "broken" || all[3].Query() != "first" {
			t.Errorf("expected newest first, got %s ... %s", all[0].Query(), all[3].Query())
		}

		recent, err := repo.Recent(2)
		if err != nil {
			t.Fatalf("failed to list recent lookups: %v", err)
		}
		if len(recent) != 2 {
			t.Errorf("expected 2 recent lookups, got %d", len(recent))
		}

		cli, err := repo.List(map[string]any{"source": "cli"})
		if err != nil {
			t.Fatalf("failed to list by source: %v", err)
		}
		if len(cli) != 1 || cli[0].Query() != "broken" {
			t.Errorf("expected only the cli lookup, got %d", len(cli))
		}

		onlyFailed, err := repo.List(map[string]any{"failed": true})
		if err != nil {
			t.Fatalf("failed to list failed lookups: %v", err)
		}
		if len(onlyFailed) != 1 || onlyFailed[0].Status() != http.StatusInternalServerError {
			t.Errorf("expected one failed lookup with status 500, got %d", len(onlyFailed))
		}

		ok, err := repo.List(map[string]any{"status": http.StatusOK})
		if err != nil {
			t.Fatalf("failed to list by status: %v", err)
		}
		if len(ok) != 3 {
			t.Errorf("expected 3 successful lookups, got %d", len(ok))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewLookupRepository(setupTestDB(t))
		lookup := finished("song", models.SourceHTTP, "https://p.scdn.co/x")
		if err := repo.Create(lookup); err != nil {
			t.Fatalf("failed to create lookup: %v", err)
		}

		if err := repo.Delete(lookup.ID()); err != nil {
			t.Fatalf("failed to delete lookup: %v", err)
		}

		if _, err := repo.Get(lookup.ID()); !errors.Is(err, ErrLookupNotFound) {
			t.Errorf("expected ErrLookupNotFound after delete, got %v", err)
		}
	})

	t.Run("Count And Prune", func(t *testing.T) {
		repo := NewLookupRepository(setupTestDB(t))
		for _, q := range []string{"a", "b"} {
			if err := repo.Create(finished(q, models.SourceHTTP, "https://p.scdn.co/"+q)); err != nil {
				t.Fatalf("failed to create lookup: %v", err)
			}
		}

		n, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 lookups, got %d", n)
		}

		removed, err := repo.Prune(time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("failed to prune: %v", err)
		}
		if removed != 2 {
			t.Errorf("expected 2 pruned lookups, got %d", removed)
		}

		if n, _ := repo.Count(); n != 0 {
			t.Errorf("expected empty table after prune, got %d", n)
		}
	})
}

func TestLookupRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewLookupRepository(setupTestDB(t))

			if err := repo.Create(models.NewLookup("pending", models.SourceHTTP)); err == nil {
				t.Fatal("expected validation error for unfinished lookup")
			}

			n, _ := repo.Count()
			if n != 0 {
				t.Errorf("invalid lookup must not be stored, found %d", n)
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			repo := NewLookupRepository(db)
			if err := repo.Create(finished("song", models.SourceHTTP, "u")); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewLookupRepository(setupTestDB(t))

			_, err := repo.Get("nonexistent-id")
			if !errors.Is(err, ErrLookupNotFound) {
				t.Fatalf("expected ErrLookupNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewLookupRepository(setupTestDB(t))

			if err := repo.Delete("nonexistent-id"); !errors.Is(err, ErrLookupNotFound) {
				t.Fatalf("expected ErrLookupNotFound, got %v", err)
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if _, err := NewLookupRepository(db).List(nil); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})
}
