package pdk

import (
	"fmt"
	"sync"
	"time"
)

/*
 * Structure to hold a search filter's state
 */
type Filter struct {
	// Optional name to display instead of the query
	Label string `json:"label,omitempty" yaml:"label"`

	// SQL "WHERE" fragment, like "customer_gender='FEMALE'"
	Query string `json:"query" yaml:"query"`

	// Disabled filters are kept, but not applied
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Exclude the matching documents instead
	Negate bool `json:"negate,omitempty" yaml:"negate"`
}

/*
 * In-memory list of the user's filters.
 * Implements FilterManager
 */
type Filters struct {
	list []Filter
	mx   sync.RWMutex
}

func NewFilters(list []Filter) *Filters {
	f := &Filters{}
	f.Set(list)

	return f
}

/*
 * Return a copy of the enabled filters in their original order
 */
func (f *Filters) GetFilters() []Filter {
	f.mx.RLock()
	defer f.mx.RUnlock()

	active := make([]Filter, 0, len(f.list))
	for _, filter := range f.list {
		if filter.Enabled {
			active = append(active, filter)
		}
	}

	return active
}

/*
 * Return a copy of all filters, including disabled ones
 */
func (f *Filters) All() []Filter {
	f.mx.RLock()
	defer f.mx.RUnlock()

	return append([]Filter{}, f.list...)
}

/*
 * Replace all filters at once
 */
func (f *Filters) Set(list []Filter) {
	f.mx.Lock()
	f.list = append([]Filter{}, list...)
	f.mx.Unlock()
}

/*
 * Time interval to limit the search with.
 * A non-zero Last is relative to the moment of the search
 * and takes a priority over From & To
 */
type TimeRange struct {
	From time.Time     `json:"from" yaml:"from"`
	To   time.Time     `json:"to" yaml:"to"`
	Last time.Duration `json:"last,omitempty" yaml:"last"`
}

func (r TimeRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero() && r.Last <= 0
}

/*
 * Absolute bounds of the range at the given moment
 */
func (r TimeRange) Resolve(now time.Time) TimeRange {
	if r.Last > 0 {
		return TimeRange{
			From: now.Add(-r.Last),
			To:   now,
		}
	}

	return TimeRange{From: r.From, To: r.To}
}

/*
 * Active time range of the searches.
 * Implements TimeFilter
 */
type Timefilter struct {
	rng TimeRange
	mx  sync.RWMutex

	// Source of the current time for the relative ranges
	clock func() time.Time
}

func NewTimefilter(rng TimeRange) *Timefilter {
	return &Timefilter{
		rng:   rng,
		clock: time.Now,
	}
}

func (t *Timefilter) SetTime(rng TimeRange) {
	t.mx.Lock()
	t.rng = rng
	t.mx.Unlock()
}

func (t *Timefilter) GetTime() TimeRange {
	t.mx.RLock()
	defer t.mx.RUnlock()

	return t.rng
}

/*
 * Create a range filter for the pattern's time field.
 * Returns nil when the pattern has no time field or no range is active.
 * Relative range is resolved against the current time on every call.
 *
 * A missing bound is replaced by the widest possible value
 */
func (t *Timefilter) CreateFilter(pattern IndexPattern) *Filter {
	rng := t.GetTime()

	if pattern.TimeField == "" || rng.IsZero() {
		return nil
	}

	rng = rng.Resolve(t.clock())

	from := rng.From
	if from.IsZero() {
		from = time.Unix(0, 0)
	}

	to := rng.To
	if to.IsZero() {
		to = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	}

	return &Filter{
		Label:   "time",
		Enabled: true,
		Query: fmt.Sprintf("%s BETWEEN '%s' AND '%s'",
			pattern.TimeField,
			from.UTC().Format(time.RFC3339),
			to.UTC().Format(time.RFC3339)),
	}
}
