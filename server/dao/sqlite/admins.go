package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/czar/server/dao"
	"github.com/google/uuid"
)

// AdminsDB is the sqlite-backed dao.AdminRepository.
type AdminsDB struct {
	db *sql.DB
}

func (repo *AdminsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS admins (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *AdminsDB) Close() error { return nil }

func (repo *AdminsDB) Create(ctx context.Context, a dao.Admin) (dao.Admin, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Admin{}, fmt.Errorf("could not generate ID: %w", err)
	}
	a.ID = newUUID

	stmt, err := repo.db.Prepare(`INSERT INTO admins (id, username, password_hash, created) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return dao.Admin{}, wrapDBError(err)
	}

	now := time.Now()
	_, err = stmt.ExecContext(ctx, a.ID.String(), a.Username, a.PasswordHash, now.Unix())
	if err != nil {
		return dao.Admin{}, wrapDBError(err)
	}

	return repo.GetByUsername(ctx, a.Username)
}

func (repo *AdminsDB) GetByUsername(ctx context.Context, username string) (dao.Admin, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created FROM admins WHERE username = ?;`, username)
	return scanAdmin(row)
}

func (repo *AdminsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Admin, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created FROM admins WHERE id = ?;`, id.String())
	return scanAdmin(row)
}

func scanAdmin(row interface{ Scan(dest ...any) error }) (dao.Admin, error) {
	var a dao.Admin
	var id string
	var created int64

	err := row.Scan(&id, &a.Username, &a.PasswordHash, &created)
	if err != nil {
		return dao.Admin{}, wrapDBError(err)
	}

	a.ID, err = uuid.Parse(id)
	if err != nil {
		return dao.Admin{}, fmt.Errorf("stored UUID %q is invalid", id)
	}
	a.Created = time.Unix(created, 0)

	return a, nil
}
