package backend

import (
	"context"
	"errors"

	"github.com/dekarrin/czar/server/dao"
	"github.com/dekarrin/czar/server/serr"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies the given username and password against the admin account
// in persistence and returns that account if they match.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the credentials do not
// match an admin account, it will match serr.ErrBadCredentials. If the
// error occurred due to an unexpected problem with the DB, it will match
// serr.ErrDB.
func (svc Service) Login(ctx context.Context, username string, password string) (dao.Admin, error) {
	admin, err := svc.DB.Admins().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Admin{}, serr.ErrBadCredentials
		}
		return dao.Admin{}, serr.WrapDB("", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return dao.Admin{}, serr.ErrBadCredentials
		}
		return dao.Admin{}, serr.WrapDB("", err)
	}

	return admin, nil
}

// CreateAdmin creates a new admin account with the given username and
// password. Returns the newly-created account.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If an admin with that
// username already exists, it will match serr.ErrAlreadyExists. If one of
// the arguments is invalid, it will match serr.ErrBadArgument.
func (svc Service) CreateAdmin(ctx context.Context, username, password string) (dao.Admin, error) {
	if username == "" {
		return dao.Admin{}, serr.New("username cannot be blank", serr.ErrBadArgument)
	}
	if password == "" {
		return dao.Admin{}, serr.New("password cannot be blank", serr.ErrBadArgument)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return dao.Admin{}, serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return dao.Admin{}, serr.New("password could not be encrypted", err)
	}

	admin, err := svc.DB.Admins().Create(ctx, dao.Admin{
		Username:     username,
		PasswordHash: string(passHash),
	})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Admin{}, serr.ErrAlreadyExists
		}
		return dao.Admin{}, serr.WrapDB("could not create admin account", err)
	}

	return admin, nil
}
