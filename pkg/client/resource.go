package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-entityform/pkg/form"
)

// Collection paths of the entity endpoints.
const (
	CollectionAuthors       = "authors"
	CollectionManufacturers = "manufacturers"
	CollectionStoreNotices  = "store-notices"
	CollectionProducts      = "products"
	CollectionAttributes    = "attributes"
)

// Resource is the REST endpoint pair of one entity collection. It implements
// form.Mutations.
type Resource[E form.Record, P any] struct {
	client     *Client
	collection string
}

// NewResource binds a collection path to c.
func NewResource[E form.Record, P any](c *Client, collection string) *Resource[E, P] {
	return &Resource[E, P]{client: c, collection: strings.Trim(collection, "/")}
}

// Collection reports the bound collection path.
func (r *Resource[E, P]) Collection() string { return r.collection }

// Create posts payload to the collection.
func (r *Resource[E, P]) Create(ctx context.Context, payload P) (E, error) {
	var out E
	err := r.client.Do(ctx, http.MethodPost, r.collection, nil, payload, &out)
	return out, err
}

// Update puts payload to the record id.
func (r *Resource[E, P]) Update(ctx context.Context, id string, payload P) (E, error) {
	var out E
	if strings.TrimSpace(id) == "" {
		return out, errors.New("client: update requires an id")
	}
	path, err := recordPath(r.collection, id)
	if err != nil {
		return out, err
	}
	err = r.client.Do(ctx, http.MethodPut, path, nil, payload, &out)
	return out, err
}

// Get loads the record with slug in language. An empty language asks for the
// API default.
func (r *Resource[E, P]) Get(ctx context.Context, slug, language string) (E, error) {
	var out E
	if strings.TrimSpace(slug) == "" {
		return out, errors.New("client: get requires a slug")
	}
	path, err := recordPath(r.collection, slug)
	if err != nil {
		return out, err
	}
	query := url.Values{}
	if language != "" {
		query.Set("language", language)
	}
	err = r.client.Do(ctx, http.MethodGet, path, query, nil, &out)
	return out, err
}

// recordPath appends key to collection as a single escaped path segment.
func recordPath(collection, key string) (string, error) {
	if key == "." || key == ".." {
		return "", fmt.Errorf("client: invalid record key %q", key)
	}
	return collection + "/" + url.PathEscape(key), nil
}
