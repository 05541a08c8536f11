package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"

	"aspectstudio/internal/repository"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS model_files (
		namespace TEXT NOT NULL,
		version TEXT NOT NULL,
		name TEXT NOT NULL,
		content TEXT NOT NULL,
		hash TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, version, name)
	);

	CREATE TABLE IF NOT EXISTS cell_positions (
		file_key TEXT NOT NULL,
		urn TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		folded INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (file_key, urn)
	);

	CREATE INDEX IF NOT EXISTS idx_model_files_namespace ON model_files(namespace, version);
	CREATE INDEX IF NOT EXISTS idx_cell_positions_file ON cell_positions(file_key);
	`

	_, err := r.db.Exec(schema)
	return err
}

// contentHash returns the hex blake2b-256 digest of a file's content. Saves
// with an unchanged hash skip the content write and keep updated_at intact.
func contentHash(content string) string {
	sum := blake2b.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// SaveModelFile inserts or updates one model file. The stored hash is
// recomputed here; callers never supply it.
func (r *Repository) SaveModelFile(ctx context.Context, file *repository.ModelFile) error {
	if file.Namespace == "" || file.Version == "" || file.Name == "" {
		return fmt.Errorf("model file key must have namespace, version and name")
	}

	hash := contentHash(file.Content)

	var existing string
	err := r.db.QueryRowContext(ctx,
		`SELECT hash FROM model_files WHERE namespace = ? AND version = ? AND name = ?`,
		file.Namespace, file.Version, file.Name).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check existing file: %w", err)
	}
	if err == nil && existing == hash {
		file.Hash = hash
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO model_files (namespace, version, name, content, hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(namespace, version, name) DO UPDATE SET
			content = excluded.content,
			hash = excluded.hash,
			updated_at = CURRENT_TIMESTAMP`,
		file.Namespace, file.Version, file.Name, file.Content, hash)
	if err != nil {
		return fmt.Errorf("failed to save model file: %w", err)
	}

	file.Hash = hash
	return nil
}

// GetModelFile loads one model file, or an error when it does not exist.
func (r *Repository) GetModelFile(ctx context.Context, namespace, version, name string) (*repository.ModelFile, error) {
	file := &repository.ModelFile{}
	err := r.db.QueryRowContext(ctx, `
		SELECT namespace, version, name, content, hash, updated_at
		FROM model_files
		WHERE namespace = ? AND version = ? AND name = ?`,
		namespace, version, name).
		Scan(&file.Namespace, &file.Version, &file.Name, &file.Content, &file.Hash, &file.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("model file %s:%s:%s not found", namespace, version, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model file: %w", err)
	}
	return file, nil
}

// ListModelFiles returns every stored file without its content, ordered by
// namespace, version and name.
func (r *Repository) ListModelFiles(ctx context.Context) ([]repository.ModelFile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT namespace, version, name, hash, updated_at
		FROM model_files
		ORDER BY namespace, version, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list model files: %w", err)
	}
	defer rows.Close()

	var files []repository.ModelFile
	for rows.Next() {
		var f repository.ModelFile
		if err := rows.Scan(&f.Namespace, &f.Version, &f.Name, &f.Hash, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteModelFile removes a file and its saved cell positions.
func (r *Repository) DeleteModelFile(ctx context.Context, namespace, version, name string) error {
	key := (&repository.ModelFile{Namespace: namespace, Version: version, Name: name}).Key()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cell_positions WHERE file_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cell positions: %w", err)
	}
	result, err := tx.ExecContext(ctx,
		`DELETE FROM model_files WHERE namespace = ? AND version = ? AND name = ?`,
		namespace, version, name)
	if err != nil {
		return fmt.Errorf("failed to delete model file: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("model file %s:%s:%s not found", namespace, version, name)
	}

	return tx.Commit()
}

// SavePositions replaces the saved cell placements for one file key.
func (r *Repository) SavePositions(ctx context.Context, fileKey string, positions []repository.Position) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cell_positions WHERE file_key = ?`, fileKey); err != nil {
		return fmt.Errorf("failed to clear cell positions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cell_positions (file_key, urn, x, y, folded)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare position insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range positions {
		folded := 0
		if p.Folded {
			folded = 1
		}
		if _, err := stmt.ExecContext(ctx, fileKey, p.URN, p.X, p.Y, folded); err != nil {
			return fmt.Errorf("failed to save position for %s: %w", p.URN, err)
		}
	}

	return tx.Commit()
}

// GetPositions loads the saved cell placements for one file key, keyed by
// element URN. A file with no saved layout yields an empty map.
func (r *Repository) GetPositions(ctx context.Context, fileKey string) (map[string]repository.Position, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT urn, x, y, folded
		FROM cell_positions
		WHERE file_key = ?`, fileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cell positions: %w", err)
	}
	defer rows.Close()

	positions := make(map[string]repository.Position)
	for rows.Next() {
		var p repository.Position
		var folded int
		if err := rows.Scan(&p.URN, &p.X, &p.Y, &folded); err != nil {
			return nil, fmt.Errorf("failed to scan cell position: %w", err)
		}
		p.Folded = folded != 0
		positions[p.URN] = p
	}
	return positions, rows.Err()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
