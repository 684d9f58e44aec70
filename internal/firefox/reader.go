package firefox

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Strategy selects how a live Firefox database is opened.
type Strategy string

const (
	// StrategyCopy copies the database plus its WAL sidecars into a temp
	// directory and checkpoints the copy. Safe against Firefox holding the
	// write lock, at the cost of copying the file.
	StrategyCopy Strategy = "copy"

	// StrategyImmutable opens the original file with immutable=1, taking
	// no locks at all. Uncheckpointed WAL content is not visible, so the
	// view may lag the browser slightly.
	StrategyImmutable Strategy = "immutable"
)

// ErrNotFound reports a missing database file.
var ErrNotFound = errors.New("firefox: database not found")

// walSidecars are the auxiliary files SQLite keeps next to a WAL-mode database.
var walSidecars = []string{"-wal", "-shm"}

// session is one open read view of a database. Closing it releases the
// connection and any temp directory it owns.
type session struct {
	db      *sql.DB
	tempDir string
}

func (s *session) close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// WithConnection opens dbPath using the given strategy, runs fn with the
// connection, and releases everything (connection, temp copy) no matter how
// fn returns. The database is never written to.
func WithConnection(dbPath string, strategy Strategy, fn func(db *sql.DB) error) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, dbPath)
	}

	var (
		s   *session
		err error
	)
	switch strategy {
	case StrategyImmutable:
		s, err = openImmutable(dbPath)
	default:
		s, err = openCopy(dbPath)
	}
	if err != nil {
		return err
	}
	defer s.close()

	return fn(s.db)
}

// openCopy copies the database and its -wal/-shm sidecars into a fresh temp
// directory, opens the copy and merges the WAL so the view reflects the
// latest committed state.
func openCopy(dbPath string) (*session, error) {
	tempDir, err := os.MkdirTemp("", "foxmark-db-")
	if err != nil {
		return nil, fmt.Errorf("firefox: temp dir: %w", err)
	}

	base := filepath.Base(dbPath)
	if err := copyFile(dbPath, filepath.Join(tempDir, base)); err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("firefox: copy db: %w", err)
	}
	for _, suffix := range walSidecars {
		src := dbPath + suffix
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(tempDir, base+suffix)); err != nil {
			os.RemoveAll(tempDir)
			return nil, fmt.Errorf("firefox: copy sidecar: %w", err)
		}
	}

	db, err := sql.Open("sqlite", filepath.Join(tempDir, base))
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("firefox: open copy: %w", err)
	}

	// Merge WAL content into the main file so the copy is self-consistent.
	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		db.Close()
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("firefox: wal checkpoint: %w", err)
	}

	return &session{db: db, tempDir: tempDir}, nil
}

// openImmutable opens the original file read-only with immutable=1 so the
// driver takes no locks on Firefox's live database.
func openImmutable(dbPath string) (*session, error) {
	dsn := "file:" + dbPath + "?immutable=1&mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("firefox: open immutable: %w", err)
	}
	return &session{db: db}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
