package api

import (
	"net/http"

	"github.com/dekarrin/czar/server/dao"
	"github.com/dekarrin/czar/server/middle"
	"github.com/dekarrin/czar/server/result"
	"github.com/dekarrin/czar/server/token"
)

// HTTPCreateToken returns a HandlerFunc that issues a fresh token for the
// admin the client is already authenticated as.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.Endpoint(api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	admin := req.Context().Value(middle.AuthAdmin).(dao.Admin)

	tok, err := token.Generate(api.Secret, admin)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:   tok,
		AdminID: admin.ID.String(),
	}
	return result.Created(resp, "admin '"+admin.Username+"' successfully created new token")
}
