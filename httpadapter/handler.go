package httpadapter

import (
	"fmt"
	"net/http"

	"github.com/next-trace/scg-failure/failure"
)

// HandlerFunc is an http.HandlerFunc that may fail.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn for routers such as chi. A returned error is written
// through WriteError. A panic is reported as an unclassified error (500).
func (a *Adapter) Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				a.WriteError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()

		if err := fn(w, r); err != nil {
			a.WriteError(w, r, err)
		}
	}
}

// NotFound returns a handler for unmatched routes that answers with the
// same body shape as every other failure.
func (a *Adapter) NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.WriteError(w, r, failure.NotFound.Msgf("no route for %s", r.URL.Path))
	}
}
