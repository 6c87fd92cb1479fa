package pdk

import (
	"sync"

	"github.com/umpc/go-sortedmap"
	"github.com/umpc/go-sortedmap/desc"
)

/*
 * Grid columns statistics is collected for
 */
var StatsFields = []string{"location", "products"}

/*
 * Structure to contain the most frequent values
 * of the displayed rows
 */
type Stats struct {
	Fields map[string]*sortedmap.SortedMap
	mx     sync.Mutex
}

func NewStats() *Stats {
	s := &Stats{
		Fields: make(map[string]*sortedmap.SortedMap),
	}

	for _, field := range StatsFields {
		s.Fields[field] = sortedmap.New(10, desc.Int)
	}

	return s
}

/*
 * Collect statistics of the given rows at once
 */
func RowsStats(rows []DisplayRow) *Stats {
	s := NewStats()

	for _, row := range rows {
		s.Update(row)
	}

	return s
}

/*
 * Update statistics with a single row.
 * Every product of the row increases its own counter by 1
 */
func (s *Stats) Update(row DisplayRow) {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.increment("location", row.Location)

	for _, product := range row.Products {
		s.increment("products", product)
	}
}

func (s *Stats) increment(field, value string) {
	// Skip if value is missing
	if value == "" {
		return
	}

	if val, ok := s.Fields[field].Get(value); ok {
		s.Fields[field].Replace(value, val.(int)+1)
	} else {
		s.Fields[field].Insert(value, 1)
	}
}

/*
 * Convert sorted-map objects to the native maps
 * with the Top N entries of every field
 */
func (s *Stats) Top(n int) (map[string]map[string]int, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	top := make(map[string]map[string]int)

	for field, values := range s.Fields {
		group := make(map[string]int)
		top[field] = group

		if len(values.Keys()) == 0 {
			continue
		}

		iterCh, err := values.IterCh()
		if err != nil {
			return nil, err
		}

		i := 0
		for rec := range iterCh.Records() {
			if i >= n {
				break
			}

			group[rec.Key.(string)] = rec.Val.(int)
			i++
		}

		iterCh.Close()
	}

	return top, nil
}
