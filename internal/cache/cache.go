// Package cache stores rendered dashboard pages keyed by request path.
//
// The web layer fills it on a cache miss and the invoice actions drop an
// entry through Revalidate after every successful mutation, so the next
// request for that path renders fresh data. Entries also expire after a TTL
// so a missed invalidation heals itself.
//
// Every path carries a generation that Revalidate advances. A filler reads
// the generation with Get before loading data and hands it back to Set,
// which discards the page if a mutation was revalidated in between.
package cache

import "context"

// PageCache is a path-keyed store of rendered pages.
type PageCache interface {
	// Get returns the cached page for path and the path's current
	// generation. A miss, or a backend error, reports false; gen is still
	// the value to pass to Set.
	Get(ctx context.Context, path string) (page []byte, gen uint64, ok bool)

	// Set stores page for path only while the generation is still gen,
	// and reports whether it did. Failures are not fatal to the request
	// and are only reported through the returned error.
	Set(ctx context.Context, path string, gen uint64, page []byte) (bool, error)

	// Revalidate drops the cached page for path and advances its
	// generation.
	Revalidate(ctx context.Context, path string) error

	// Close releases backend resources.
	Close() error
}

// Nop caches nothing. Revalidate always succeeds.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, uint64, bool)        { return nil, 0, false }
func (Nop) Set(context.Context, string, uint64, []byte) (bool, error) { return false, nil }
func (Nop) Revalidate(context.Context, string) error                  { return nil }
func (Nop) Close() error                                              { return nil }
