package backend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"github.com/dekarrin/czar/internal/config"
	"github.com/dekarrin/czar/internal/diag"
	"github.com/dekarrin/czar/internal/transpiler"
	"github.com/dekarrin/czar/server/dao"
	"github.com/dekarrin/czar/server/serr"
	"github.com/google/uuid"
)

// Submit hashes source and returns the cached dao.Transpile for that hash if
// one exists (cached=true). Otherwise it runs internal/transpiler.Transpile
// over source under name, stores the result, and returns it (cached=false).
//
// The returned error, if non-nil, will match serr.ErrDB if persistence
// failed, or wrap the transpiler's own fatal-input error otherwise.
func (svc Service) Submit(ctx context.Context, source []byte, name string, cfg config.Settings) (dao.Transpile, bool, error) {
	hash := hashSource(source, cfg)

	existing, found, err := svc.DB.Transpiles().GetByHash(ctx, hash)
	if err != nil {
		return dao.Transpile{}, false, serr.WrapDB("could not query cache", err)
	}
	if found {
		return existing, true, nil
	}

	if name == "" {
		name = "source.cz"
	}

	tmpDir, err := os.MkdirTemp("", "czarserver-transpile-*")
	if err != nil {
		return dao.Transpile{}, false, serr.New("could not create scratch directory", err)
	}
	defer os.RemoveAll(tmpDir)

	srcPath := filepath.Join(tmpDir, filepath.Base(name))
	if err := os.WriteFile(srcPath, source, 0600); err != nil {
		return dao.Transpile{}, false, serr.New("could not write scratch source file", err)
	}

	res, err := transpiler.Transpile(srcPath, cfg)
	if err != nil {
		return dao.Transpile{}, false, serr.New("transpile failed", err)
	}

	t := dao.Transpile{
		SourceHash:  hash,
		Diagnostics: toDAODiagnostics(res.Report),
	}

	if res.HaltedAt != "" {
		t.Status = dao.StatusFailed
	} else {
		t.Status = dao.StatusSucceeded
		t.TranslationUnit = res.Output.TranslationUnit
		t.Header = res.Output.Header
		t.CSource = res.Output.Source
	}

	stored, err := svc.DB.Transpiles().Create(ctx, t)
	if err != nil {
		return dao.Transpile{}, false, serr.WrapDB("could not store transpile result", err)
	}

	return stored, false, nil
}

// GetTranspile fetches a previously computed result by job ID.
func (svc Service) GetTranspile(ctx context.Context, id uuid.UUID) (dao.Transpile, error) {
	t, err := svc.DB.Transpiles().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Transpile{}, serr.ErrNotFound
		}
		return dao.Transpile{}, serr.WrapDB("could not retrieve transpile", err)
	}
	return t, nil
}

// ClearCache flushes every cached transpile result and returns how many
// entries were removed.
func (svc Service) ClearCache(ctx context.Context) (int, error) {
	n, err := svc.DB.Transpiles().DeleteAll(ctx)
	if err != nil {
		return 0, serr.WrapDB("could not clear cache", err)
	}
	return n, nil
}

// Stats reports cache hit/miss counters for GET /api/v1/stats.
func (svc Service) Stats(ctx context.Context) (dao.Stats, error) {
	st, err := svc.DB.Transpiles().Stats(ctx)
	if err != nil {
		return dao.Stats{}, serr.WrapDB("could not read cache stats", err)
	}
	return st, nil
}

// hashSource keys the cache on both the source bytes and the build settings
// that would affect codegen, so a debug-mode build never collides with a
// release-mode build of the same source.
func hashSource(source []byte, cfg config.Settings) string {
	h := sha256.New()
	h.Write(source)
	h.Write([]byte{0})
	h.Write([]byte(cfg.Build.TargetStd))
	if cfg.Build.Debug {
		h.Write([]byte{1})
	}
	for _, name := range cfg.Build.ForbidFatal {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func toDAODiagnostics(r *diag.Reporter) []dao.Diagnostic {
	if r == nil {
		return nil
	}
	items := r.Items()
	out := make([]dao.Diagnostic, len(items))
	for i, d := range items {
		out[i] = dao.Diagnostic{
			Severity:   d.Severity.String(),
			ID:         d.ID,
			Func:       d.Func,
			File:       d.File,
			Line:       d.Line,
			Message:    d.Message,
			Suggestion: d.Suggestion,
		}
	}
	return out
}
