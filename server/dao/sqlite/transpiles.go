package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/czar/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// TranspilesDB is the sqlite-backed dao.TranspileRepository.
type TranspilesDB struct {
	db *sql.DB
}

func (repo *TranspilesDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS transpiles (
		id TEXT NOT NULL PRIMARY KEY,
		source_hash TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		translation_unit TEXT NOT NULL,
		header TEXT NOT NULL,
		c_source TEXT NOT NULL,
		diagnostics TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *TranspilesDB) Close() error { return nil }

func (repo *TranspilesDB) Create(ctx context.Context, t dao.Transpile) (dao.Transpile, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Transpile{}, fmt.Errorf("could not generate ID: %w", err)
	}
	t.ID = newUUID

	diagData := rezi.EncBinary(t.Diagnostics)
	encDiag := base64.StdEncoding.EncodeToString(diagData)

	stmt, err := repo.db.Prepare(`INSERT INTO transpiles
		(id, source_hash, status, translation_unit, header, c_source, diagnostics, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Transpile{}, wrapDBError(err)
	}

	now := time.Now()
	_, err = stmt.ExecContext(ctx, t.ID.String(), t.SourceHash, string(t.Status),
		t.TranslationUnit, t.Header, t.CSource, encDiag, now.Unix())
	if err != nil {
		return dao.Transpile{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, t.ID)
}

func (repo *TranspilesDB) scanRow(row interface {
	Scan(dest ...any) error
}) (dao.Transpile, error) {
	var t dao.Transpile
	var id, status, encDiag string
	var created int64

	err := row.Scan(&id, &t.SourceHash, &status, &t.TranslationUnit, &t.Header, &t.CSource, &encDiag, &created)
	if err != nil {
		return dao.Transpile{}, wrapDBError(err)
	}

	t.ID, err = uuid.Parse(id)
	if err != nil {
		return dao.Transpile{}, fmt.Errorf("stored UUID %q is invalid", id)
	}
	t.Status = dao.Status(status)
	t.Created = time.Unix(created, 0)

	diagData, err := base64.StdEncoding.DecodeString(encDiag)
	if err != nil {
		return dao.Transpile{}, fmt.Errorf("stored diagnostics blob is not valid base64: %w", err)
	}
	if len(diagData) > 0 {
		n, err := rezi.DecBinary(diagData, &t.Diagnostics)
		if err != nil {
			return dao.Transpile{}, fmt.Errorf("REZI decode diagnostics: %w", err)
		}
		if n != len(diagData) {
			return dao.Transpile{}, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(diagData))
		}
	}

	return t, nil
}

func (repo *TranspilesDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Transpile, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, source_hash, status, translation_unit, header, c_source, diagnostics, created
		FROM transpiles WHERE id = ?;`, id.String())
	return repo.scanRow(row)
}

func (repo *TranspilesDB) GetByHash(ctx context.Context, hash string) (dao.Transpile, bool, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, source_hash, status, translation_unit, header, c_source, diagnostics, created
		FROM transpiles WHERE source_hash = ?;`, hash)
	t, err := repo.scanRow(row)
	if err != nil {
		if err == dao.ErrNotFound {
			return dao.Transpile{}, false, nil
		}
		return dao.Transpile{}, false, err
	}
	return t, true, nil
}

func (repo *TranspilesDB) DeleteAll(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transpiles;`).Scan(&count); err != nil {
		return 0, wrapDBError(err)
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM transpiles;`); err != nil {
		return 0, wrapDBError(err)
	}
	return count, nil
}

func (repo *TranspilesDB) Stats(ctx context.Context) (dao.Stats, error) {
	var st dao.Stats
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transpiles;`).Scan(&st.TotalEntries); err != nil {
		return dao.Stats{}, wrapDBError(err)
	}
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transpiles WHERE status = ?;`, string(dao.StatusSucceeded)).Scan(&st.Succeeded); err != nil {
		return dao.Stats{}, wrapDBError(err)
	}
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transpiles WHERE status = ?;`, string(dao.StatusFailed)).Scan(&st.Failed); err != nil {
		return dao.Stats{}, wrapDBError(err)
	}
	return st, nil
}
