package pdk

import (
	"context"
)

/*
 * Default search parameters of the sample e-commerce data
 */
const (
	DefaultIndexName = "kibana_sample_data_ecommerce"
	DefaultTimeField = "order_date"
	DefaultSize      = 500
)

/*
 * Returns zero or more index patterns matching the given name
 */
type IndexPatternResolver interface {
	Find(ctx context.Context, name string) ([]IndexPattern, error)
}

/*
 * Returns the currently active filters, order preserving
 */
type FilterManager interface {
	GetFilters() []Filter
}

/*
 * Optionally produces one additional filter
 * bounded to the active time range
 */
type TimeFilter interface {
	CreateFilter(pattern IndexPattern) *Filter
}

/*
 * Executes a single search attempt
 */
type SearchExecutor interface {
	Fetch(ctx context.Context, pattern IndexPattern, filters []Filter) ([]SourceDocument, error)
}

/*
 * User visible notifications ("toasts")
 */
type NotificationSink interface {
	AddSuccess(message string)
	AddDanger(message string)
}

/*
 * Interface to be implemented by the search backend plugins
 */
type Backend interface {
	IndexPatternResolver
	SearchExecutor

	// Return backend instance configuration
	Conf() *Source

	// Set specific parameters for the backend instance,
	// establish connection, etc.
	Setup(*Source) error

	// Get a list of all known index fields
	// for the filters autocomplete
	Fields(ctx context.Context) ([]string, error)

	// Gracefully disconnect from the backend when the service stops
	Stop() error
}
