// Package main demonstrates usage of the scg-failure packages.
package main

import (
	"errors"
	"fmt"
	"log"
	"net/http/httptest"

	"github.com/next-trace/scg-failure/failure"
	"github.com/next-trace/scg-failure/httpadapter"
	"github.com/next-trace/scg-failure/wire"
)

func main() {
	// The four construction forms
	parseErr := errors.New("unexpected EOF")
	for _, e := range []*failure.Error{
		failure.NotFound.New(),
		failure.BadRequest.Msg("missing field: id"),
		failure.InvalidInput.Wrap("bad format", parseErr),
		failure.EventProcessing.From(errors.New("broker unavailable")),
	} {
		fmt.Println(e.Kind(), e.HasMessage(), e.Message(), e.Cause())
	}

	// Dispatch on kind through a wrapping chain
	err := fmt.Errorf("load product: %w", failure.NotFound.Msg("product 7"))
	fmt.Println(errors.Is(err, failure.ErrNotFound), errors.Is(err, failure.ErrBadRequest))

	// Translate at the edge
	fmt.Println(httpadapter.New().StatusCodeFor(err))

	w := httptest.NewRecorder()
	httpadapter.New().WriteError(w, httptest.NewRequest("GET", "/products/7", nil), err)
	fmt.Println(w.Code, w.Body.String())

	// Ship across a process boundary
	data, merr := wire.Marshal(err)
	if merr != nil {
		log.Fatal(merr)
	}

	fmt.Println(string(data))
}
