/*
 * Search backend definition.
 * Loaded from the "source" section of "ordergrid.yaml".
 *
 * Check "ordergrid.yaml.example" for the fields description
 */

package pdk

import (
	"encoding/json"
	"time"
)

type Source struct {
	Name        string            `yaml:"name"`
	Plugin      string            `yaml:"plugin"`
	Timeout     time.Duration     `yaml:"timeout"`
	Access      map[string]string `yaml:"access"`
	IndexName   string            `yaml:"indexName"`
	TimeField   string            `yaml:"timeField"`
	Size        int               `yaml:"size"`
	MatchPolicy MatchPolicy       `yaml:"matchPolicy"`
}

/*
 * Reference to a searchable documents collection
 */
type IndexPattern struct {
	// Concrete index, alias or wildcard expression to search in
	Name string `json:"name"`

	// Human readable name, the requested pattern
	Title string `json:"title"`

	// Field used by the time filter, empty when
	// the collection has no time dimension
	TimeField string `json:"timeField,omitempty"`
}

/*
 * One raw record returned by a search, prior to projection
 */
type SourceDocument struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

/*
 * What to do when several index patterns match the requested name
 */
type MatchPolicy string

const (
	// Take the first pattern in the resolver's order
	MatchFirst MatchPolicy = "first"

	// Refuse to guess, report ErrAmbiguousIndex
	MatchStrict MatchPolicy = "strict"
)

/*
 * Set default values of the fields that are not specified
 */
func (s *Source) Defaults() {
	if s.Timeout == 0*time.Second {
		s.Timeout = 60 * time.Second
	}

	if s.IndexName == "" {
		s.IndexName = DefaultIndexName
	}

	if s.TimeField == "" {
		s.TimeField = DefaultTimeField
	}

	if s.Size <= 0 {
		s.Size = DefaultSize
	}

	if s.MatchPolicy == "" {
		s.MatchPolicy = MatchFirst
	}
}
