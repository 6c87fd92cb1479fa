package elasticsearch8

import (
	"github.com/cert-lv/ordergrid/pdk"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	Name    = "elasticsearch.v8"
	Version = "1.0.2"
)

/*
 * Elasticsearch 8.x search backend
 */
type Plugin struct {

	// Inherit default configuration fields
	source *pdk.Source

	// Custom fields
	client *elasticsearch.Client
}

func New() pdk.Backend {
	return &Plugin{}
}
