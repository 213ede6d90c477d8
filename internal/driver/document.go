// Package driver orchestrates the five-stage pipeline (plus optional
// Enrich) over one document or a batch of documents — spec.md §5 and
// §7's error-isolation policy.
package driver

import (
	"context"
	"fmt"

	"github.com/Osso/refextract/internal/collect"
	"github.com/Osso/refextract/internal/enrich"
	"github.com/Osso/refextract/internal/kb"
	"github.com/Osso/refextract/internal/layout"
	"github.com/Osso/refextract/internal/model"
	"github.com/Osso/refextract/internal/parse"
	"github.com/Osso/refextract/internal/tokenizer"
	"github.com/Osso/refextract/internal/zones"
)

// Options toggles the pipeline's optional stages (spec.md §6 CLI surface).
type Options struct {
	SkipFootnotes bool
	SkipDOILookup bool
	Resolver      enrich.Resolver
	Cache         *enrich.Cache
}

// ProcessDocument runs the full pipeline over one document's positioned
// characters: Layout, Zones, Collect, the semicolon sub-split, Tokenizer,
// Parse, the cross-reference ibid resolution pass, and Enrich (only when
// SkipDOILookup is false and both Resolver and Cache are set). An empty
// or no-reference document yields an empty, non-error result (spec.md §7).
func ProcessDocument(ctx context.Context, provider layout.CharProvider, path string, kbase *kb.KB, opts Options) ([]model.ParsedReference, error) {
	pagesCh, err := provider.Pages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("driver: char provider: %w", err)
	}

	var pages []model.PageChars
	for pg := range pagesCh {
		pages = append(pages, pg)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("driver: %s: %w", path, err)
	}

	blocksPerPage := make([][]model.Block, len(pages))
	for i, pg := range pages {
		blocksPerPage[i] = layout.BuildBlocks(pg)
	}
	bodyFontSize := zones.BodyFontSize(blocksPerPage)

	zonedPages := make([]collect.Page, len(pages))
	for i, pg := range pages {
		zoned := zones.ClassifyPage(blocksPerPage[i], pg.PageNumber, pg.Height, bodyFontSize)
		zonedPages[i] = collect.Page{Number: pg.PageNumber, Blocks: zoned}
	}

	rawRefs := collect.Collect(zonedPages)
	if opts.SkipFootnotes {
		rawRefs = excludeFootnoteSource(rawRefs)
	}

	var splitRefs []model.RawReference
	for _, ref := range rawRefs {
		splitRefs = append(splitRefs, collect.SplitOnSemicolons(ref)...)
	}

	tk := tokenizer.New(kbase.ReportNumbers, kbase.Journals, kbase.Collaborations)

	var parsed []model.ParsedReference
	for _, ref := range splitRefs {
		parsed = append(parsed, parse.Reference(ref, tk.Tokenize(ref))...)
	}
	parsed = parse.ResolveIbidPlaceholders(parsed)

	if !opts.SkipDOILookup && opts.Resolver != nil && opts.Cache != nil {
		parsed = enrich.References(ctx, parsed, opts.Resolver, opts.Cache)
	}

	return parsed, nil
}

func excludeFootnoteSource(refs []model.RawReference) []model.RawReference {
	out := make([]model.RawReference, 0, len(refs))
	for _, r := range refs {
		if r.Source != model.SourceFootnote {
			out = append(out, r)
		}
	}
	return out
}
