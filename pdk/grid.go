package pdk

import (
	"context"
	"sync"
	"time"
)

/*
 * Notification texts shown to the user
 */
const (
	MessageUpdated = "Data Updated"
	MessageFailed  = "First, Add Data In Index"
)

/*
 * Presentation state: the currently displayed rows.
 *
 * Every search gets a sequence number when issued, its outcome is applied
 * only if no later issued search has been applied already,
 * so overlapping searches can't bring older rows back
 */
type Grid struct {
	notifier NotificationSink

	// Called with the new rows after every applied search
	onApply func([]DisplayRow)

	rows    []DisplayRow
	issued  uint64
	applied uint64
	closed  bool
	mx      sync.Mutex
}

/*
 * Summary of a single search invocation
 */
type Result struct {
	ID      string        `json:"id"`
	Seq     uint64        `json:"seq"`
	Pattern IndexPattern  `json:"pattern"`
	Filters []Filter      `json:"filters"`
	Rows    int           `json:"rows"`
	Took    time.Duration `json:"took"`

	// A later issued search was applied first,
	// so these rows were dropped
	Stale bool `json:"stale,omitempty"`
}

func NewGrid(notifier NotificationSink, onApply func([]DisplayRow)) *Grid {
	return &Grid{
		notifier: notifier,
		onApply:  onApply,
		rows:     []DisplayRow{},
	}
}

/*
 * Run the search and apply its outcome.
 *
 * Exactly one notification is emitted per invocation,
 * unless the grid is closed meanwhile.
 * On failure the displayed rows stay untouched and *SearchError is returned
 */
func (g *Grid) Search(ctx context.Context, s *Searcher) (*Result, error) {
	seq := g.begin()
	outcome := <-s.Start(ctx)

	return g.apply(seq, outcome)
}

func (g *Grid) begin() uint64 {
	g.mx.Lock()
	defer g.mx.Unlock()

	g.issued++
	return g.issued
}

func (g *Grid) apply(seq uint64, outcome *Outcome) (*Result, error) {
	result := &Result{
		ID:      outcome.ID,
		Seq:     seq,
		Pattern: outcome.Pattern,
		Filters: outcome.Filters,
		Rows:    len(outcome.Rows),
		Took:    outcome.Took,
	}

	g.mx.Lock()

	// Presentation layer is gone, nobody to update
	if g.closed {
		g.mx.Unlock()
		return result, outcome.Err
	}

	if outcome.Err != nil {
		g.mx.Unlock()
		g.notify(false)

		return result, outcome.Err
	}

	applied := seq > g.applied
	rows := outcome.Rows

	if applied {
		g.rows = rows
		g.applied = seq
	} else {
		result.Stale = true
	}

	g.mx.Unlock()
	g.notify(true)

	if applied && g.onApply != nil {
		g.onApply(copyRows(rows))
	}

	return result, nil
}

func (g *Grid) notify(success bool) {
	if g.notifier == nil {
		return
	}

	if success {
		g.notifier.AddSuccess(MessageUpdated)
	} else {
		g.notifier.AddDanger(MessageFailed)
	}
}

/*
 * Return a copy of the displayed rows in the source order
 */
func (g *Grid) Rows() []DisplayRow {
	g.mx.Lock()
	defer g.mx.Unlock()

	return copyRows(g.rows)
}

/*
 * Build a render contract of the displayed rows.
 * Sorting happens in memory, no new search is issued
 */
func (g *Grid) Table(sort *SortState) (*Table, error) {
	rows, err := SortRows(g.Rows(), Columns, sort)
	if err != nil {
		return nil, err
	}

	return &Table{
		Columns: Columns,
		Rows:    rows,
		Sort:    sort,
	}, nil
}

/*
 * Stop accepting search outcomes.
 * In-flight searches complete silently
 */
func (g *Grid) Close() {
	g.mx.Lock()
	g.closed = true
	g.mx.Unlock()
}

func copyRows(rows []DisplayRow) []DisplayRow {
	return append([]DisplayRow{}, rows...)
}
