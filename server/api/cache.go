package api

import (
	"net/http"

	"github.com/dekarrin/czar/server/result"
)

// HTTPDeleteCache returns a HandlerFunc that flushes the transpile cache.
// Admin-only; mount behind middle.RequireAuth.
func (api API) HTTPDeleteCache() http.HandlerFunc {
	return api.Endpoint(api.epDeleteCache)
}

func (api API) epDeleteCache(req *http.Request) result.Result {
	n, err := api.Backend.ClearCache(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	return result.OK(CacheClearedModel{Removed: n}, "cache cleared, %d entries removed", n)
}

// HTTPGetStats returns a HandlerFunc that reports cache hit/miss counters.
// Admin-only; mount behind middle.RequireAuth.
func (api API) HTTPGetStats() http.HandlerFunc {
	return api.Endpoint(api.epGetStats)
}

func (api API) epGetStats(req *http.Request) result.Result {
	st, err := api.Backend.Stats(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := StatsModel{
		TotalEntries: st.TotalEntries,
		Succeeded:    st.Succeeded,
		Failed:       st.Failed,
	}
	return result.OK(resp, "cache stats retrieved")
}
