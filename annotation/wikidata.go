package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/German-BioImaging/omero-rdf/errors"
)

// LookupFunc resolves a SPARQL query to the IRI bound by the first result
// row, reporting ok=false when the knowledge base has no match. A nil
// LookupFunc disables entity resolution entirely.
type LookupFunc func(ctx context.Context, query, variable string) (iri string, ok bool, err error)

// DefaultSPARQLEndpoint is the public Wikidata query service.
const DefaultSPARQLEndpoint = "https://query.wikidata.org/sparql"

// WikidataClient queries a SPARQL endpoint for entity resolution.
type WikidataClient struct {
	endpoint string
	client   *http.Client
}

// NewWikidataClient returns a client against the given endpoint, defaulting
// to the public Wikidata query service.
func NewWikidataClient(endpoint string, client *http.Client) *WikidataClient {
	if endpoint == "" {
		endpoint = DefaultSPARQLEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &WikidataClient{endpoint: endpoint, client: client}
}

// sparqlResponse is the SPARQL 1.1 JSON results format, reduced to the
// fields the lookup needs.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Lookup runs the query and returns the IRI bound to the named variable in
// the first result row.
func (w *WikidataClient) Lookup(ctx context.Context, query, variable string) (string, bool, error) {
	form := url.Values{}
	form.Set("query", query)
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+form.Encode(), nil)
	if err != nil {
		return "", false, errors.Wrap(err, "WikidataClient", "Lookup", "building request")
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", false, errors.Wrap(err, "WikidataClient", "Lookup", "query")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", false, errors.Wrap(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			"WikidataClient", "Lookup", "query")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, errors.Wrap(err, "WikidataClient", "Lookup", "reading body")
	}
	var parsed sparqlResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, errors.WrapInvalid(err, "WikidataClient", "Lookup", "decoding results")
	}

	if len(parsed.Results.Bindings) == 0 {
		return "", false, nil
	}
	binding, ok := parsed.Results.Bindings[0][variable]
	if !ok {
		return "", false, nil
	}
	return binding.Value, true, nil
}
