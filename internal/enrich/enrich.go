// Package enrich fills in missing DOIs on parsed references via a
// caching external resolver — the optional sixth pipeline stage
// (spec.md §4.8). Nothing here is required for the core pipeline to
// produce correct output; References without a resolvable DOI are left
// exactly as Parse produced them.
package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/Osso/refextract/internal/model"
)

// References runs the enrichment pass over refs in order, returning a
// new slice (the input is not mutated). Only refs with an empty Doi are
// attempted. For each, the journal key is tried first, then the arXiv
// key, per spec.md §4.8.
func References(ctx context.Context, refs []model.ParsedReference, resolver Resolver, cache *Cache) []model.ParsedReference {
	out := make([]model.ParsedReference, len(refs))
	copy(out, refs)

	for i := range out {
		if out[i].Doi != "" {
			continue
		}
		if doi, ok := attemptJournalLookup(ctx, out[i], resolver, cache); ok {
			out[i].Doi = doi
			continue
		}
		if doi, ok := attemptArxivLookup(ctx, out[i], resolver, cache); ok {
			out[i].Doi = doi
		}
	}

	return out
}

func journalKey(ref model.ParsedReference) (key, query string, ok bool) {
	if ref.JournalTitle == "" || ref.JournalVolume == "" || ref.JournalPage == "" {
		return "", "", false
	}
	key = fmt.Sprintf("j:%s|v:%s|p:%s", ref.JournalTitle, ref.JournalVolume, ref.JournalPage)
	query = fmt.Sprintf("%s %s %s", ref.JournalTitle, ref.JournalVolume, ref.JournalPage)
	return key, query, true
}

func arxivKey(ref model.ParsedReference) (key, query string, ok bool) {
	if ref.ArxivId == "" {
		return "", "", false
	}
	return "arxiv:" + ref.ArxivId, "arXiv " + ref.ArxivId, true
}

func attemptJournalLookup(ctx context.Context, ref model.ParsedReference, resolver Resolver, cache *Cache) (string, bool) {
	key, query, ok := journalKey(ref)
	if !ok {
		return "", false
	}
	return lookup(ctx, key, query, resolver, cache)
}

func attemptArxivLookup(ctx context.Context, ref model.ParsedReference, resolver Resolver, cache *Cache) (string, bool) {
	key, query, ok := arxivKey(ref)
	if !ok {
		return "", false
	}
	return lookup(ctx, key, query, resolver, cache)
}

// lookup consults the cache first, falls through to the resolver on a
// miss, and applies spec.md §4.8's caching policy: positive and
// confirmed-negative results are cached, transient errors are not.
func lookup(ctx context.Context, key, query string, resolver Resolver, cache *Cache) (string, bool) {
	if doi, found, hasEntry := cache.Lookup(key); hasEntry {
		return doi, found
	}

	doi, err := resolver.Resolve(ctx, query)
	switch {
	case err == nil:
		cache.PutPositive(key, doi)
		return doi, true
	case errors.Is(err, ErrNotFound):
		cache.PutNegative(key)
		return "", false
	default:
		return "", false // transient: not cached, retried next run
	}
}
