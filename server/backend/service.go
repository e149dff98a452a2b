// Package backend has services for interacting with the transpile-cache
// server's persistence layer, decoupled from the HTTP API that fronts it.
package backend

import (
	"github.com/dekarrin/czar/server/dao"
)

// Service performs the actions requested by the API and makes calls to
// persistence to preserve cache and admin-account state.
//
// The zero value of Service is not ready to use; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {
	// DB is the persistence store of the service.
	DB dao.Store

	// CacheDSN names the connection string the store was opened with, for
	// reporting in GET /api/v1/stats.
	CacheDSN string
}
