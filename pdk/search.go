package pdk

import (
	"context"
	"time"

	"github.com/google/uuid"
)

/*
 * Searches the configured index pattern and projects
 * returned documents into display rows.
 *
 * Reads the current filters and time range from the collaborators
 * at call time, so the same Searcher is reused for every invocation
 */
type Searcher struct {
	// Name of the index pattern to resolve
	IndexName string

	// What to do when several index patterns match
	Policy MatchPolicy

	Resolver IndexPatternResolver
	Filters  FilterManager
	Time     TimeFilter
	Executor SearchExecutor
}

/*
 * Result of a single search execution
 */
type Outcome struct {
	// Unique invocation ID for the logs
	ID string

	// Resolved index pattern
	Pattern IndexPattern

	// Filters sent to the executor
	Filters []Filter

	// Projected rows, nil on failure
	Rows []DisplayRow

	// Execution time
	Took time.Duration

	// *SearchError on failure
	Err error
}

/*
 * Run the search in a background and deliver its outcome
 * to the returned channel, exactly once
 */
func (s *Searcher) Start(ctx context.Context) <-chan *Outcome {
	ch := make(chan *Outcome, 1)

	go func() {
		ch <- s.Execute(ctx)
		close(ch)
	}()

	return ch
}

/*
 * Execute the search synchronously.
 * Has no side effects besides the executor's request
 */
func (s *Searcher) Execute(ctx context.Context) *Outcome {
	started := time.Now()

	outcome := &Outcome{
		ID: uuid.NewString(),
	}

	outcome.Err = s.execute(ctx, outcome)
	if outcome.Err != nil {
		outcome.Rows = nil
	}

	outcome.Took = time.Since(started)
	return outcome
}

func (s *Searcher) execute(ctx context.Context, outcome *Outcome) error {
	pattern, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	outcome.Pattern = pattern

	outcome.Filters = ComposeFilters(s.Filters, s.Time, pattern)

	docs, err := s.Executor.Fetch(ctx, pattern, outcome.Filters)
	if err != nil {
		return &SearchError{Kind: ErrSearchFailed, Err: err}
	}

	rows, err := ProjectAll(docs)
	if err != nil {
		return err
	}

	outcome.Rows = rows
	return nil
}

/*
 * Resolve the index pattern by its name applying the match policy
 */
func (s *Searcher) resolve(ctx context.Context) (IndexPattern, error) {
	patterns, err := s.Resolver.Find(ctx, s.IndexName)
	if err != nil {
		return IndexPattern{}, &SearchError{Kind: ErrSearchFailed, Err: err}
	}

	if len(patterns) == 0 {
		return IndexPattern{}, searchError(ErrIndexNotFound, "'%s'", s.IndexName)
	}

	if len(patterns) > 1 && s.Policy == MatchStrict {
		return IndexPattern{}, searchError(ErrAmbiguousIndex, "'%s' matches %d patterns", s.IndexName, len(patterns))
	}

	return patterns[0], nil
}

/*
 * Active filters followed by the time filter, if any.
 * The time filter is appended, never merged with the existing ones
 */
func ComposeFilters(manager FilterManager, timefilter TimeFilter, pattern IndexPattern) []Filter {
	filters := []Filter{}

	if manager != nil {
		filters = append(filters, manager.GetFilters()...)
	}

	if timefilter != nil {
		if filter := timefilter.CreateFilter(pattern); filter != nil {
			filters = append(filters, *filter)
		}
	}

	return filters
}
