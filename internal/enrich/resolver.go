package enrich

import (
	"context"

	"github.com/Osso/refextract/internal/rxerr"
)

// ErrNotFound is returned by a Resolver when the lookup reached the
// remote service and got a definitive "no such record" answer — a
// confirmed negative, which the cache remembers and never retries.
var ErrNotFound = rxerr.ErrNotFound

// Resolver looks up a DOI for a free-text query (e.g. "Phys. Rev. D 82
// 2010" or "arXiv 1203.45678"). Any error other than ErrNotFound is
// treated as transient (network failure, rate limiting, empty body) and
// is never cached — the next enrichment run retries the same ref.
type Resolver interface {
	Resolve(ctx context.Context, query string) (doi string, err error)
}
