package main

import (
	"context"

	"github.com/cert-lv/ordergrid/pdk"
)

var (
	// Owner of the displayed rows
	grid *pdk.Grid

	// Search of the configured index with the current filters
	searcher *pdk.Searcher

	// Active filters & time range
	filters    *pdk.Filters
	timefilter *pdk.Timefilter

	// Latest notifications
	toasts *Toasts
)

/*
 * Search the data and update the displayed rows.
 * Receives a requestor's IP for the logs
 */
func runSearch(ctx context.Context, ip string) (*pdk.Result, error) {
	result, err := grid.Search(ctx, searcher)

	if err != nil {
		observeSearch(pdk.ErrorKind(err), result.Took.Seconds())

		log.Error().
			Str("ip", ip).
			Str("id", result.ID).
			Str("kind", pdk.ErrorKind(err)).
			Msg("Search failed: " + err.Error())

		return result, err
	}

	if result.Stale {
		observeSearch("stale", result.Took.Seconds())

		log.Info().
			Str("ip", ip).
			Str("id", result.ID).
			Uint64("seq", result.Seq).
			Msg("Newer search already applied, results dropped")

		return result, nil
	}

	observeSearch("success", result.Took.Seconds())
	displayedRows.Set(float64(result.Rows))

	log.Info().
		Str("ip", ip).
		Str("id", result.ID).
		Str("index", result.Pattern.Name).
		Int("filters", len(result.Filters)).
		Int("rows", result.Rows).
		Dur("took", result.Took).
		Msg("Search finished")

	return result, nil
}
