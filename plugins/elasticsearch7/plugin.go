package elasticsearch7

import (
	"github.com/cert-lv/ordergrid/pdk"
	"github.com/elastic/go-elasticsearch/v7"
)

const (
	Name    = "elasticsearch.v7"
	Version = "1.1.0"
)

/*
 * Elasticsearch 7.x search backend
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
