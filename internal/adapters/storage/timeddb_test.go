package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)")
	return db
}

// TestTimedDB_ExecContext verifies ExecContext passes through.
func TestTimedDB_ExecContext(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
}

// TestTimedDB_QueryRowContext verifies QueryRowContext passes through.
func TestTimedDB_QueryRowContext(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db)

	tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")

	var val string
	err := tdb.QueryRowContext(context.Background(), "SELECT val FROM test WHERE id = ?", "1").Scan(&val)
	if err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if val != "hello" {
		t.Errorf("val = %q, want hello", val)
	}
}

// --- Resilience: Error Passthrough ---

// TestTimedDB_ErrorPassthrough_ExecContext verifies SQL errors are returned unchanged.
// Swallowing errors here would corrupt the cache silently.
func TestTimedDB_ErrorPassthrough_ExecContext(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db)

	_, err := tdb.ExecContext(context.Background(), "INSERT INTO nonexistent_table VALUES (?)")
	if err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
}

// TestTimedDB_ErrorPassthrough_QueryRowContext verifies scan errors pass through.
func TestTimedDB_ErrorPassthrough_QueryRowContext(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db)

	var val string
	err := tdb.QueryRowContext(context.Background(), "SELECT val FROM test WHERE id = ?", "nonexistent").Scan(&val)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

// TestTimedDB_CancelledContext verifies a cancelled context returns an error.
func TestTimedDB_CancelledContext(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello")
	if err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

// --- Correctness: Result Passthrough ---

// TestTimedDB_ResultPassthrough verifies sql.Result values are returned unchanged.
func TestTimedDB_ResultPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db)

	result, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "r1", "result")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		t.Fatalf("RowsAffected: %v", err)
	}
	if rows != 1 {
		t.Errorf("RowsAffected = %d, want 1", rows)
	}
}

// TestTimedDB_RawDB verifies RawDB returns the original *sql.DB.
func TestTimedDB_RawDB(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db)

	if tdb.RawDB() != db {
		t.Error("RawDB() should return the original *sql.DB")
	}
}

// --- Resilience: Concurrent Mixed Operations ---

// TestTimedDB_ConcurrentMixedOps verifies no data races or panics under
// concurrent Exec and QueryRow calls.
func TestTimedDB_ConcurrentMixedOps(t *testing.T) {
	db := openTimedTestDB(t)
	defer db.Close()
	tdb := NewTimedDB(db)

	tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "seed", "data")

	ctx := context.Background()
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				tdb.ExecContext(ctx, "INSERT OR REPLACE INTO test (id, val) VALUES (?, ?)", "w", "v")
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				var v string
				tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "seed").Scan(&v)
			}
		}
	}()

	time.Sleep(100 * time.Millisecond)
	close(done)
	wg.Wait()
}

// BenchmarkTimedDB_OverheadIsolation measures the pure instrumentation
// overhead by comparing TimedDB vs raw *sql.DB for the same query.
func BenchmarkTimedDB_OverheadIsolation(b *testing.B) {
	db, _ := sql.Open("sqlite", ":memory:")
	defer db.Close()
	db.Exec("CREATE TABLE bench (id INTEGER PRIMARY KEY, val TEXT)")
	db.Exec("INSERT INTO bench VALUES (1, 'x')")

	ctx := context.Background()

	b.Run("RawDB", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			db.QueryRowContext(ctx, "SELECT val FROM bench WHERE id = 1")
		}
	})

	tdb := NewTimedDB(db)
	b.Run("TimedDB", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			tdb.QueryRowContext(ctx, "SELECT val FROM bench WHERE id = 1")
		}
	})
}
