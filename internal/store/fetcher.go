package store

import (
	"context"

	"github.com/Silberengel/wikistr-sub007/core/citation"
	"github.com/Silberengel/wikistr-sub007/core/errors"
	"github.com/Silberengel/wikistr-sub007/core/query"
	"github.com/Silberengel/wikistr-sub007/core/record"
	"github.com/Silberengel/wikistr-sub007/core/resolve"
)

// CachingFetcher serves queries from the store when possible, falling back
// to the wrapped fetcher and writing its results through. Relay failures
// after a previous successful fetch are therefore invisible to callers.
type CachingFetcher struct {
	store  *Store
	remote resolve.Fetcher
	log    Logger
}

// Logger is the subset of the logging API the fetcher needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// NewCachingFetcher wraps remote with read-through caching. log may be nil.
func NewCachingFetcher(s *Store, remote resolve.Fetcher, log Logger) *CachingFetcher {
	return &CachingFetcher{store: s, remote: remote, log: log}
}

func (f *CachingFetcher) Fetch(ctx context.Context, query string) ([]record.Record, error) {
	recs, err := f.store.LoadBatch(ctx, query)
	if err == nil {
		f.debug("cache hit", "query", query, "records", len(recs))
		return recs, nil
	}
	if !errors.IsNotFound(err) {
		f.warn("cache read failed", "query", query, "error", err)
	}

	recs, err = f.remote.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	if saveErr := f.store.SaveBatch(ctx, query, recs); saveErr != nil {
		f.warn("cache write failed", "query", query, "error", saveErr)
	}
	return recs, nil
}

func (f *CachingFetcher) FetchIndex(ctx context.Context, ref citation.Reference, version string) (*record.Record, error) {
	key := "index\x00" + query.Build(ref, version).BaseQuery() + "\x00" + version
	recs, err := f.store.LoadBatch(ctx, key)
	if err == nil {
		if len(recs) == 0 {
			return nil, errors.NewNotFound("index", ref.Title)
		}
		return &recs[0], nil
	}
	if !errors.IsNotFound(err) {
		f.warn("cache read failed", "query", key, "error", err)
	}

	idx, err := f.remote.FetchIndex(ctx, ref, version)
	if err != nil {
		if errors.IsNotFound(err) {
			if saveErr := f.store.SaveBatch(ctx, key, nil); saveErr != nil {
				f.warn("cache write failed", "query", key, "error", saveErr)
			}
		}
		return nil, err
	}
	if saveErr := f.store.SaveBatch(ctx, key, []record.Record{*idx}); saveErr != nil {
		f.warn("cache write failed", "query", key, "error", saveErr)
	}
	return idx, nil
}

func (f *CachingFetcher) debug(msg string, args ...any) {
	if f.log != nil {
		f.log.Debug(msg, args...)
	}
}

func (f *CachingFetcher) warn(msg string, args ...any) {
	if f.log != nil {
		f.log.Warn(msg, args...)
	}
}
