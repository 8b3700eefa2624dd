package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/next-trace/scg-failure/failure"
	"github.com/next-trace/scg-failure/httpadapter"
	"github.com/next-trace/scg-failure/wire"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func TestKindsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := run(t, "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "invalid_input")
	assert.Contains(t, out, "422")

	path := filepath.Join(dir, "scg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("statuses:\n  invalid_input: 400\n"), 0o600))

	out, err = run(t, "--config", path, "kinds")
	require.NoError(t, err)
	assert.NotContains(t, out, "422")
}

func TestEncodeCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "encode", "not_found", "product 7", "--cause", "sql: no rows")
	require.NoError(t, err)

	got, err := wire.Unmarshal([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "not_found: product 7: sql: no rows", got.Error())

	_, err = run(t, "encode", "teapot")
	assert.True(t, failure.IsKind(err, failure.InvalidInput))
}

func TestUsageErrorsExitWithUsageStatus(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, args := range [][]string{
		{"encode"},
		{"encode", "not_found", "m", "extra"},
		{"kinds", "extra"},
		{"kinds", "--bogus"},
		{"encode", "not_found", "--cause"},
	} {
		_, err := run(t, args...)
		require.Error(t, err, args)
		assert.True(t, failure.IsKind(err, failure.BadRequest), "%v: %v", args, err)
		assert.Equal(t, exitUsage, exitCode(err), args)
	}

	assert.Equal(t, exitUsage, exitCode(failure.InvalidInput.New()))
	assert.Equal(t, exitFailure, exitCode(errors.New("connect nats: refused")))
}

func TestRaiseKindRoute(t *testing.T) {
	adapter := httpadapter.New()
	r := chi.NewRouter()
	r.Get("/kinds/{kind}", adapter.Handle(raiseKind))

	tests := map[string]int{
		"/kinds/not_found":                   http.StatusNotFound,
		"/kinds/bad_request?message=missing": http.StatusBadRequest,
		"/kinds/event_processing":            http.StatusInternalServerError,
		"/kinds/teapot":                      http.StatusBadRequest,
	}

	for path, status := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}
}
