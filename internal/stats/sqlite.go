package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the statistics database.
const schema = `
CREATE TABLE IF NOT EXISTS daily_stats (
    date            TEXT PRIMARY KEY,
    sessions        INTEGER NOT NULL DEFAULT 0,
    keys_pressed    INTEGER NOT NULL DEFAULT 0,
    letters_typed   INTEGER NOT NULL DEFAULT 0,
    numbers_typed   INTEGER NOT NULL DEFAULT 0,
    words_completed INTEGER NOT NULL DEFAULT 0,
    time_spent_ms   INTEGER NOT NULL DEFAULT 0,
    accuracy        INTEGER NOT NULL DEFAULT 100
);

CREATE TABLE IF NOT EXISTS totals (
    id               INTEGER PRIMARY KEY CHECK (id = 1),
    sessions         INTEGER NOT NULL,
    keys_pressed     INTEGER NOT NULL,
    time_spent_ms    INTEGER NOT NULL,
    average_accuracy INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS achievements (
    id        TEXT PRIMARY KEY,
    earned_at INTEGER NOT NULL
);
`

// SQLiteStore keeps statistics in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

const dayColumns = `date, sessions, keys_pressed, letters_typed, numbers_typed, words_completed, time_spent_ms, accuracy`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDay(row rowScanner) (Day, error) {
	var d Day
	var ms int64
	err := row.Scan(&d.Date, &d.Sessions, &d.KeysPressed, &d.LettersTyped,
		&d.NumbersTyped, &d.WordsCompleted, &ms, &d.Accuracy)
	d.TimeSpent = time.Duration(ms) * time.Millisecond
	return d, err
}

// Day returns the stored day.
func (s *SQLiteStore) Day(date string) (Day, bool, error) {
	db, err := s.conn()
	if err != nil {
		return Day{}, false, err
	}
	d, err := scanDay(db.QueryRow(`SELECT `+dayColumns+` FROM daily_stats WHERE date = ?`, date))
	if errors.Is(err, sql.ErrNoRows) {
		return emptyDay(date), false, nil
	}
	if err != nil {
		return Day{}, false, fmt.Errorf("query day: %w", err)
	}
	return d, true, nil
}

// Days returns stored days in [from, to], oldest first.
func (s *SQLiteStore) Days(from, to string) ([]Day, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT `+dayColumns+` FROM daily_stats
		WHERE date >= ? AND date <= ? ORDER BY date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	var days []Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// Totals returns the all-time counters.
func (s *SQLiteStore) Totals() (Totals, error) {
	db, err := s.conn()
	if err != nil {
		return Totals{}, err
	}
	var t Totals
	var ms int64
	err = db.QueryRow(`SELECT sessions, keys_pressed, time_spent_ms, average_accuracy
		FROM totals WHERE id = 1`).Scan(&t.Sessions, &t.KeysPressed, &ms, &t.AverageAccuracy)
	if errors.Is(err, sql.ErrNoRows) {
		return Totals{}, nil
	}
	if err != nil {
		return Totals{}, fmt.Errorf("query totals: %w", err)
	}
	t.TimeSpent = time.Duration(ms) * time.Millisecond
	return t, nil
}

// SaveSession writes day and totals in one transaction.
func (s *SQLiteStore) SaveSession(day Day, totals Totals) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO daily_stats (`+dayColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			sessions = excluded.sessions,
			keys_pressed = excluded.keys_pressed,
			letters_typed = excluded.letters_typed,
			numbers_typed = excluded.numbers_typed,
			words_completed = excluded.words_completed,
			time_spent_ms = excluded.time_spent_ms,
			accuracy = excluded.accuracy`,
		day.Date, day.Sessions, day.KeysPressed, day.LettersTyped, day.NumbersTyped,
		day.WordsCompleted, day.TimeSpent.Milliseconds(), day.Accuracy,
	)
	if err != nil {
		return fmt.Errorf("save day: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO totals (id, sessions, keys_pressed, time_spent_ms, average_accuracy)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sessions = excluded.sessions,
			keys_pressed = excluded.keys_pressed,
			time_spent_ms = excluded.time_spent_ms,
			average_accuracy = excluded.average_accuracy`,
		totals.Sessions, totals.KeysPressed, totals.TimeSpent.Milliseconds(), totals.AverageAccuracy,
	)
	if err != nil {
		return fmt.Errorf("save totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Achievements returns earned achievements, oldest first.
func (s *SQLiteStore) Achievements() ([]Achievement, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT id, earned_at FROM achievements ORDER BY earned_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var out []Achievement
	for rows.Next() {
		var id string
		var at int64
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		out = append(out, newAchievement(id, time.Unix(0, at)))
	}
	return out, rows.Err()
}

// AddAchievement records an achievement. Recording one twice keeps the
// first date.
func (s *SQLiteStore) AddAchievement(a Achievement) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT OR IGNORE INTO achievements (id, earned_at) VALUES (?, ?)`,
		a.ID, a.EarnedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}
	return nil
}

// Prune deletes days before the given date.
func (s *SQLiteStore) Prune(before string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM daily_stats WHERE date < ?`, before); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// Reset deletes everything.
func (s *SQLiteStore) Reset() error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(`DELETE FROM daily_stats; DELETE FROM totals; DELETE FROM achievements;`)
	if err != nil {
		return fmt.Errorf("reset statistics: %w", err)
	}
	return nil
}
