// Package middle contains HTTP middleware for the transpile-cache server.
package middle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dekarrin/czar/server/dao"
	"github.com/dekarrin/czar/server/result"
	"github.com/dekarrin/czar/server/token"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthAdmin
)

// AuthHandler accepts a request, extracts its bearer token, and looks up the
// dao.Admin it names. Keys are added to the request context before the
// request is passed to the next step in the chain: AuthAdmin holds the
// looked-up account, and AuthLoggedIn says whether one was found (only
// meaningful for optional auth; required auth instead fails the request
// before the next handler runs).
type AuthHandler struct {
	db            dao.AdminRepository
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var admin dao.Admin

	tok, err := token.Get(req)
	if err != nil {
		if ah.required {
			r := result.Unauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			r.WriteResponse(w)
			return
		}
	} else {
		lookupAdmin, err := token.Validate(req.Context(), tok, ah.secret, ah.db)
		if err != nil {
			if ah.required {
				r := result.Unauthorized("", err.Error())
				time.Sleep(ah.unauthedDelay)
				r.WriteResponse(w)
				return
			}
		} else {
			admin = lookupAdmin
			loggedIn = true
		}
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthAdmin, admin)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth returns middleware that rejects any request without a valid
// bearer token for an existing admin account.
func RequireAuth(db dao.AdminRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

// OptionalAuth returns middleware that looks up the requesting admin if a
// bearer token is present, but lets the request through either way.
func OptionalAuth(db dao.AdminRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      false,
			next:          next,
		}
	}
}

// DontPanic returns a Middleware that recovers from a panic in the wrapped
// handler and writes an HTTP-500 instead of crashing the server.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.WriteResponse(w)
		return true
	}
	return false
}
