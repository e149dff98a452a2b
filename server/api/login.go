package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/czar/server/result"
	"github.com/dekarrin/czar/server/serr"
	"github.com/dekarrin/czar/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that logs an admin in with a
// username and password and returns the bearer token for that account.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.Endpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	err := parseJSON(req, &loginData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	admin, err := api.Backend.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "admin '%s': %s", loginData.Username, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, admin)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:   tok,
		AdminID: admin.ID.String(),
	}
	return result.Created(resp, "admin '"+admin.Username+"' successfully logged in")
}
