package pdk

import (
	"fmt"

	"github.com/Jeffail/gabs/v2"
)

/*
 * Receive hits of the Elasticsearch search response body
 * and keep their "_source" untouched for the later projection
 */
func DecodeHits(body []byte) ([]SourceDocument, error) {
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("Can't parse search response: %s", err.Error())
	}

	// Search request rejected by the server
	if parsed.Exists("error") {
		return nil, fmt.Errorf("Search error: %s", parsed.Path("error").String())
	}

	if !parsed.Exists("hits", "hits") {
		return nil, fmt.Errorf("Can't find 'hits.hits' in search response")
	}

	docs := []SourceDocument{}

	for i, hit := range parsed.Search("hits", "hits").Children() {
		if !hit.Exists("_source") {
			return nil, fmt.Errorf("Can't decode '_source' of hit #%d", i)
		}

		id, _ := hit.Path("_id").Data().(string)

		docs = append(docs, SourceDocument{
			ID:     id,
			Source: hit.Path("_source").Bytes(),
		})
	}

	return docs, nil
}
