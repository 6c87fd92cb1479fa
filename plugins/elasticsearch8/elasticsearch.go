package elasticsearch8

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cert-lv/ordergrid/pdk"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

/*
 * Check "pdk/plugin.go" for the backend functions description
 */

func (p *Plugin) Conf() *pdk.Source {
	return p.source
}

func (p *Plugin) Setup(source *pdk.Source) error {

	// Validate necessary parameters
	err := pdk.ValidateAccess(source)
	if err != nil {
		return err
	}

	transport, err := pdk.HTTPTransport(source)
	if err != nil {
		return err
	}

	cfg := elasticsearch.Config{
		Addresses: []string{source.Access["url"]},
		Transport: transport,
	}

	// Several ways to authorize the user
	if source.Access["key"] != "" {
		cfg.APIKey = source.Access["key"]
	} else if source.Access["username"] != "" && source.Access["password"] != "" {
		cfg.Username = source.Access["username"]
		cfg.Password = source.Access["password"]
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), source.Timeout)
	defer cancel()

	// Ping the Elasticsearch server to get e.g. the version number
	info, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	defer info.Body.Close()

	if info.IsError() {
		return fmt.Errorf("Can't get server info: %s", info.Status())
	}

	// Store settings
	p.source = source
	p.client = client

	return nil
}

func (p *Plugin) Find(ctx context.Context, name string) ([]pdk.IndexPattern, error) {
	res, err := p.client.Cat.Indices(
		p.client.Cat.Indices.WithIndex(name),
		p.client.Cat.Indices.WithFormat("json"),
		p.client.Cat.Indices.WithH("index"),
		p.client.Cat.Indices.WithExpandWildcards("open"),
		p.client.Cat.Indices.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}

	body, err := readBody(res)
	if err != nil {
		// Unknown concrete index name
		if res.StatusCode == http.StatusNotFound {
			return []pdk.IndexPattern{}, nil
		}
		return nil, err
	}

	return pdk.ParseCatIndices(body, name, p.source.TimeField)
}

func (p *Plugin) Fetch(ctx context.Context, pattern pdk.IndexPattern, filters []pdk.Filter) ([]pdk.SourceDocument, error) {
	query, err := pdk.BuildQuery(filters, p.source.Size)
	if err != nil {
		return nil, err
	}

	res, err := p.client.Search(
		p.client.Search.WithIndex(pattern.Name),
		p.client.Search.WithBody(strings.NewReader(query)),
		p.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}

	body, err := readBody(res)
	if err != nil {
		return nil, err
	}

	return pdk.DecodeHits(body)
}

func (p *Plugin) Fields(ctx context.Context) ([]string, error) {

	// In Elasticsearch mapping is a place to get all the fields from
	res, err := p.client.Indices.GetMapping(
		p.client.Indices.GetMapping.WithIndex(p.source.IndexName),
		p.client.Indices.GetMapping.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}

	body, err := readBody(res)
	if err != nil {
		return nil, err
	}

	return pdk.MappingFields(body)
}

func (p *Plugin) Stop() error {
	// No connection to close, idle ones are dropped by the transport
	return nil
}

/*
 * Read the whole response body, fail on non-2xx status
 */
func readBody(res *esapi.Response) ([]byte, error) {
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.IsError() {
		return body, fmt.Errorf("Elasticsearch responded with %s: %s", res.Status(), string(body))
	}

	return body, nil
}
