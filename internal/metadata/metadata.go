// Package metadata holds the filter enumerations: sources, locations and
// incident types. They are fetched once per session and never refreshed.
package metadata

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"github.com/tomakado/containers/set"
	"github.com/uniqwrites/secnews/internal/logging"
	"github.com/uniqwrites/secnews/internal/query"
)

// Provider is the subset of the API client the cache needs.
type Provider interface {
	Sources(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
	IncidentTypes(ctx context.Context) ([]string, error)
}

// Cache is read-only once loaded. A category whose retrieval failed is
// empty, which leaves only the unrestricted option for that dimension.
type Cache struct {
	values map[query.Dimension][]string
	index  map[query.Dimension]func(string) bool
	errs   map[query.Dimension]error
}

// Load runs the three retrievals concurrently. Failures are recorded per
// category and never returned: the cache is always usable.
func Load(ctx context.Context, p Provider) *Cache {
	fetchers := map[query.Dimension]func(context.Context) ([]string, error){
		query.DimSource:       p.Sources,
		query.DimLocation:     p.Locations,
		query.DimIncidentType: p.IncidentTypes,
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		c   = newCache()
		log = logging.For("metadata")
	)

	for dim, fetch := range fetchers {
		wg.Add(1)
		go func(dim query.Dimension, fetch func(context.Context) ([]string, error)) {
			defer wg.Done()
			values, err := fetch(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("metadata category unavailable", "category", dim.String(), "error", err)
				c.errs[dim] = err
				return
			}
			c.put(dim, values)
		}(dim, fetch)
	}

	wg.Wait()
	return c
}

// FromValues builds a cache directly. The TUI starts from an empty one until
// the real values arrive.
func FromValues(sources, locations, incidentTypes []string) *Cache {
	c := newCache()
	c.put(query.DimSource, sources)
	c.put(query.DimLocation, locations)
	c.put(query.DimIncidentType, incidentTypes)
	return c
}

func newCache() *Cache {
	return &Cache{
		values: make(map[query.Dimension][]string),
		index:  make(map[query.Dimension]func(string) bool),
		errs:   make(map[query.Dimension]error),
	}
}

func (c *Cache) put(dim query.Dimension, values []string) {
	values = lo.Uniq(lo.Filter(values, func(v string, _ int) bool { return v != "" }))
	c.values[dim] = values
	known := set.New(values...)
	c.index[dim] = func(v string) bool { return known.Contains(v) }
}

// Values returns the known values for a dimension, in backend order.
func (c *Cache) Values(dim query.Dimension) []string {
	return c.values[dim]
}

func (c *Cache) Sources() []string       { return c.Values(query.DimSource) }
func (c *Cache) Locations() []string     { return c.Values(query.DimLocation) }
func (c *Cache) IncidentTypes() []string { return c.Values(query.DimIncidentType) }

// Options returns the selectable values with the unrestricted "" first.
func (c *Cache) Options(dim query.Dimension) []string {
	return append([]string{""}, c.values[dim]...)
}

// Has reports whether value is a known value of dim. The empty string is
// always accepted: it means no restriction.
func (c *Cache) Has(dim query.Dimension, value string) bool {
	if value == "" {
		return true
	}
	contains, ok := c.index[dim]
	if !ok {
		return false
	}
	return contains(value)
}

// Err returns the retrieval error for a category, if any.
func (c *Cache) Err(dim query.Dimension) error {
	return c.errs[dim]
}

// Degraded lists the categories that failed to load.
func (c *Cache) Degraded() []query.Dimension {
	var out []query.Dimension
	for _, d := range query.Dimensions() {
		if c.errs[d] != nil {
			out = append(out, d)
		}
	}
	return out
}
