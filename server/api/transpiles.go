package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/czar/server/dao"
	"github.com/dekarrin/czar/server/result"
	"github.com/dekarrin/czar/server/serr"
	"github.com/google/uuid"
)

// HTTPCreateTranspile returns a HandlerFunc that hashes the submitted source,
// returns the cached result for that hash if one exists, and otherwise runs
// the transpiler and caches the result before returning it.
func (api API) HTTPCreateTranspile() http.HandlerFunc {
	return api.Endpoint(api.epCreateTranspile)
}

func (api API) epCreateTranspile(req *http.Request) result.Result {
	reqData := SubmitTranspileRequest{}
	if err := parseJSON(req, &reqData); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if reqData.Source == "" {
		return result.BadRequest("source: property is empty or missing from request", "empty source")
	}

	t, cached, err := api.Backend.Submit(req.Context(), []byte(reqData.Source), reqData.Name, api.TranspileConfig)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := transpileModel(t, cached)
	verb := "transpiled"
	if cached {
		verb = "served from cache"
	}
	return result.Created(resp, "job '%s' %s", t.ID, verb)
}

// HTTPGetTranspile returns a HandlerFunc that fetches a previously computed
// result by job ID.
func (api API) HTTPGetTranspile() http.HandlerFunc {
	return api.Endpoint(api.epGetTranspile)
}

func (api API) epGetTranspile(req *http.Request) result.Result {
	idStr, err := getURLParam(req, "id")
	if err != nil {
		return result.NotFound()
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return result.BadRequest("id: not a valid job ID", "invalid job ID %q", idStr)
	}

	t, err := api.Backend.GetTranspile(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(transpileModel(t, false), "job '%s' retrieved", t.ID)
}

func transpileModel(t dao.Transpile, cached bool) TranspileModel {
	diags := make([]DiagnosticModel, len(t.Diagnostics))
	for i, d := range t.Diagnostics {
		diags[i] = DiagnosticModel{
			Severity:   d.Severity,
			ID:         d.ID,
			Func:       d.Func,
			File:       d.File,
			Line:       d.Line,
			Message:    d.Message,
			Suggestion: d.Suggestion,
		}
	}

	return TranspileModel{
		ID:              t.ID.String(),
		Cached:          cached,
		Status:          string(t.Status),
		TranslationUnit: t.TranslationUnit,
		Header:          t.Header,
		CSource:         t.CSource,
		Diagnostics:     diags,
	}
}
