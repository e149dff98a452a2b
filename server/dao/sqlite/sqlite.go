// Package sqlite implements dao.Store on top of modernc.org/sqlite, the
// teacher's pure-Go sqlite driver, for `czarserver --db sqlite:<dir>`.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/czar/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB

	transpiles *TranspilesDB
	admins     *AdminsDB
}

// NewDatastore opens (creating if necessary) a sqlite database file named
// "data.db" inside storageDir, and initializes both repositories' tables.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "data.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.transpiles = &TranspilesDB{db: st.db}
	if err := st.transpiles.init(); err != nil {
		return nil, err
	}

	st.admins = &AdminsDB{db: st.db}
	if err := st.admins.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Transpiles() dao.TranspileRepository {
	return s.transpiles
}

func (s *store) Admins() dao.AdminRepository {
	return s.admins
}

func (s *store) Close() error {
	return s.db.Close()
}

// wrapDBError translates a raw database/sql or modernc.org/sqlite error
// into one of the dao package's sentinel errors where one applies.
func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
