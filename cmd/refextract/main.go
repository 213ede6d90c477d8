// Command refextract runs the reference-extraction pipeline over one or
// more documents and prints the resulting structured references as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/Osso/refextract/internal/driver"
	"github.com/Osso/refextract/internal/kb"
	"github.com/Osso/refextract/internal/layout"
	"github.com/Osso/refextract/internal/model"
	"github.com/Osso/refextract/internal/rxerr"
	"github.com/Osso/refextract/internal/zones"
)

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "\nERROR: No command-line arguments supplied to refextract\n")
		os.Exit(1)
	}

	pretty := false
	debugLayout := false
	skipFootnotes := false
	skipDOILookup := false
	providerPath := ""
	journalsPath := "testdata/kb/journals.txt"
	reportsPath := "testdata/kb/reportnumbers.txt"
	collabsPath := "testdata/kb/collaborations.txt"

	var files []string

	for len(args) > 0 {
		switch args[0] {
		case "-pretty":
			pretty = true
			args = args[1:]
		case "-debug-layout":
			debugLayout = true
			args = args[1:]
		case "-skip-footnotes":
			skipFootnotes = true
			args = args[1:]
		case "-skip-doi-lookup":
			skipDOILookup = true
			args = args[1:]
		case "-provider":
			providerPath = requireStringArg(args, "Provider path")
			args = args[1:]
		case "-journals":
			journalsPath = requireStringArg(args, "Journals KB path")
			args = args[1:]
		case "-reportnumbers":
			reportsPath = requireStringArg(args, "Report-number KB path")
			args = args[1:]
		case "-collaborations":
			collabsPath = requireStringArg(args, "Collaborations KB path")
			args = args[1:]
		default:
			if len(args[0]) > 0 && args[0][0] == '-' {
				fmt.Fprintf(os.Stderr, "\nERROR: Unrecognized option %s\n", args[0])
				os.Exit(1)
			}
			files = append(files, args[0])
			args = args[1:]
		}
	}

	if len(files) < 1 {
		fmt.Fprintf(os.Stderr, "\nERROR: No input documents supplied\n")
		os.Exit(1)
	}

	kbase, err := loadKB(journalsPath, reportsPath, collabsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}

	provider, err := resolveProvider(providerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}

	opts := driver.Options{SkipFootnotes: skipFootnotes, SkipDOILookup: skipDOILookup}

	ctx := context.Background()
	reporter := driver.NewReporter()

	exitCode := 0
	totalRefs := 0
	failures := 0

	for _, path := range files {
		if debugLayout {
			if err := dumpLayout(ctx, provider, path); err != nil {
				fmt.Fprintf(os.Stderr, "\nERROR: %s: %s\n", path, err)
				exitCode = 1
			}
			continue
		}

		refs, err := driver.ProcessDocument(ctx, provider, path, kbase, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nERROR: %s: %s\n", path, err)
			failures++
			exitCode = 1
			continue
		}

		totalRefs += len(refs)
		if err := printRefs(refs, pretty); err != nil {
			fmt.Fprintf(os.Stderr, "\nERROR: %s: %s\n", path, err)
			exitCode = 1
		}
	}

	if len(files) > 1 {
		fmt.Fprintln(os.Stderr, reporter.Summary(len(files), totalRefs, failures))
	}

	os.Exit(exitCode)
}

func requireStringArg(args []string, name string) string {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "\nERROR: %s is missing\n", name)
		os.Exit(1)
	}
	return args[1]
}

func loadKB(journalsPath, reportsPath, collabsPath string) (*kb.KB, error) {
	journals, err := os.Open(journalsPath)
	if err != nil {
		return nil, fmt.Errorf("opening journals KB: %w", err)
	}
	defer journals.Close()

	reports, err := os.Open(reportsPath)
	if err != nil {
		return nil, fmt.Errorf("opening report-number KB: %w", err)
	}
	defer reports.Close()

	collabs, err := os.Open(collabsPath)
	if err != nil {
		return nil, fmt.Errorf("opening collaborations KB: %w", err)
	}
	defer collabs.Close()

	return kb.Load(journals, reports, collabs)
}

// resolveProvider returns the positioned-char provider a document is read
// through. No PDF backend is built into this module (see
// layout.CharProvider), so it always returns an error: ErrNoCharProvider
// when -provider is not given, and a not-built-in error for any
// -provider path.
func resolveProvider(path string) (layout.CharProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("%w; pass -provider <path>", rxerr.ErrNoCharProvider)
	}
	return nil, fmt.Errorf("external char providers are not built in; -provider %q must be wired by the caller", path)
}

func printRefs(refs []model.ParsedReference, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	for _, ref := range refs {
		if err := enc.Encode(ref); err != nil {
			return err
		}
	}
	return nil
}

var zoneColor = map[model.ZoneKind]*color.Color{
	model.Header:     color.New(color.FgCyan),
	model.PageNumber: color.New(color.FgHiBlack),
	model.Footnote:   color.New(color.FgYellow),
	model.Body:       color.New(color.FgGreen),
}

// dumpLayout prints every block's classified zone, color-coded when
// stdout is a terminal, for visually inspecting the Layout/Zones split
// before Collect ever runs.
func dumpLayout(ctx context.Context, provider layout.CharProvider, path string) error {
	pagesCh, err := provider.Pages(ctx, path)
	if err != nil {
		return fmt.Errorf("char provider: %w", err)
	}

	var pages []model.PageChars
	for pg := range pagesCh {
		pages = append(pages, pg)
	}

	blocksPerPage := make([][]model.Block, len(pages))
	for i, pg := range pages {
		blocksPerPage[i] = layout.BuildBlocks(pg)
	}
	bodyFontSize := zones.BodyFontSize(blocksPerPage)

	for i, pg := range pages {
		zoned := zones.ClassifyPage(blocksPerPage[i], pg.PageNumber, pg.Height, bodyFontSize)
		for _, zb := range zoned {
			c, ok := zoneColor[zb.Zone]
			label := fmt.Sprintf("[page %d] %-9s %s", zb.PageNumber, zb.Zone, zb.Block.Text())
			if ok {
				c.Println(label)
			} else {
				fmt.Println(label)
			}
		}
	}
	return nil
}
