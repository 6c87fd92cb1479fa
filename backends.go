package main

import (
	"fmt"

	"github.com/cert-lv/ordergrid/pdk"
	"github.com/cert-lv/ordergrid/plugins/elasticsearch7"
	"github.com/cert-lv/ordergrid/plugins/elasticsearch8"
)

var (
	// Known search backends,
	// plugin name -> constructor
	plugins = map[string]func() pdk.Backend{
		elasticsearch7.Name: elasticsearch7.New,
		elasticsearch8.Name: elasticsearch8.New,
	}

	// Backend of the configured source
	backend pdk.Backend
)

/*
 * Setup the configured search backend
 */
func setupBackend(source *pdk.Source) (pdk.Backend, error) {
	create, ok := plugins[source.Plugin]
	if !ok {
		return nil, fmt.Errorf("No such plugin '%s' required by a source '%s'", source.Plugin, source.Name)
	}

	b := create()

	err := b.Setup(source)
	if err != nil {
		return nil, fmt.Errorf("Can't setup '%s': %s", source.Name, err.Error())
	}

	log.Info().
		Str("source", source.Name).
		Str("plugin", source.Plugin).
		Str("index", source.IndexName).
		Msg("Backend initialized")

	return b, nil
}

/*
 * Create a searcher reading the current filters & time range
 * and using the cache in front of the backend when enabled
 */
func newSearcher(b pdk.Backend, executor pdk.SearchExecutor) *pdk.Searcher {
	return &pdk.Searcher{
		IndexName: b.Conf().IndexName,
		Policy:    b.Conf().MatchPolicy,
		Resolver:  b,
		Filters:   filters,
		Time:      timefilter,
		Executor:  executor,
	}
}
