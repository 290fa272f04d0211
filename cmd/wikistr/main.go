// Command wikistr resolves wiki-style citations against a relay: it parses
// citation notation, plans the retrieval queries, fetches and orders the
// matching records, and prints the assembled passages.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/Silberengel/wikistr-sub007/core/citation"
	"github.com/Silberengel/wikistr-sub007/core/query"
	"github.com/Silberengel/wikistr-sub007/core/record"
	"github.com/Silberengel/wikistr-sub007/core/resolve"
	"github.com/Silberengel/wikistr-sub007/internal/archive"
	"github.com/Silberengel/wikistr-sub007/internal/logging"
	"github.com/Silberengel/wikistr-sub007/internal/relay"
	"github.com/Silberengel/wikistr-sub007/internal/store"
	"github.com/Silberengel/wikistr-sub007/internal/validation"
)

const version = "0.1.0"

// CLI defines the command-line interface for wikistr.
var CLI struct {
	// Global flags
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" env:"WIKISTR_LOG_LEVEL"`
	LogJSON  bool   `name:"log-json" help:"Emit logs as JSON"`

	Parse    ParseCmd      `cmd:"" help:"Parse a citation and print its normalized structure"`
	Plan     PlanCmd       `cmd:"" help:"Print the retrieval queries a citation generates"`
	Resolve  ResolveCmd    `cmd:"" help:"Resolve a citation against a relay and print the passages"`
	Snapshot SnapshotGroup `cmd:"" help:"Snapshot operations (show, verify)"`
	Version  VersionCmd    `cmd:"" help:"Print version information"`
}

// ParseCmd parses a citation and prints its structure.
type ParseCmd struct {
	Citation string `arg:"" help:"Citation text, with or without [[...]] wrapping"`
	Raw      bool   `help:"Print the pre-normalization structure"`
	JSON     bool   `help:"Print as JSON"`
}

func (c *ParseCmd) Run() error {
	parsed := citation.Parse(c.Citation)
	if parsed == nil || len(parsed.References) == 0 {
		return fmt.Errorf("no parsable references in %q", c.Citation)
	}
	if !c.Raw {
		parsed = parsed.Normalized()
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	}

	for i, ref := range parsed.References {
		fmt.Printf("Reference %d\n", i+1)
		fmt.Printf("  Collection: %s\n", orDash(ref.Collection))
		fmt.Printf("  Title:      %s\n", ref.Title)
		fmt.Printf("  Chapter:    %s\n", orDash(ref.Chapter))
		if len(ref.Sections) > 0 {
			fmt.Printf("  Sections:   %v\n", ref.Sections)
		}
		if len(ref.Versions) > 0 {
			fmt.Printf("  Versions:   %v\n", ref.Versions)
		}
	}
	if len(parsed.Versions) > 0 {
		fmt.Printf("Citation versions: %v\n", parsed.Versions)
	}
	return nil
}

// PlanCmd prints the queries a citation would send, in retrieval order.
type PlanCmd struct {
	Citation string `arg:"" help:"Citation text"`
}

func (c *PlanCmd) Run() error {
	parsed := citation.Parse(c.Citation)
	if parsed == nil || len(parsed.References) == 0 {
		return fmt.Errorf("no parsable references in %q", c.Citation)
	}
	preds := query.Generate(parsed.Normalized().References)
	for i, p := range preds {
		fmt.Printf("Query %d: %s\n", i+1, p.RangeQuery())
		if p.Range != nil {
			for _, uq := range p.UnitQueries() {
				fmt.Printf("  fallback: %s\n", uq)
			}
		}
	}
	return nil
}

// ResolveCmd resolves a citation against a relay.
type ResolveCmd struct {
	Citation string        `arg:"" help:"Citation text"`
	Relay    string        `help:"Relay websocket URL" default:"wss://thecitadel.nostr1.com" env:"WIKISTR_RELAY"`
	Cache    string        `help:"SQLite cache database path" env:"WIKISTR_CACHE" type:"path"`
	Out      string        `name:"snapshot" help:"Write the fetched records to an xz snapshot" type:"path"`
	Timeout  time.Duration `help:"Per-query relay timeout" default:"15s"`
	Limit    int           `help:"Per-query record limit" default:"500"`
	Keys     bool          `help:"Print passage keys instead of content"`
}

func (c *ResolveCmd) Run() error {
	parsed := citation.Parse(c.Citation)
	if parsed == nil || len(parsed.References) == 0 {
		return fmt.Errorf("no parsable references in %q", c.Citation)
	}
	if c.Cache != "" {
		if err := validation.ValidatePath(c.Cache); err != nil {
			return fmt.Errorf("invalid cache path: %w", err)
		}
	}
	if c.Out != "" {
		if err := validation.ValidatePath(c.Out); err != nil {
			return fmt.Errorf("invalid snapshot path: %w", err)
		}
	}

	ctx := context.Background()
	client, err := relay.Dial(ctx, c.Relay,
		relay.WithTimeout(c.Timeout),
		relay.WithLimit(c.Limit),
	)
	if err != nil {
		return fmt.Errorf("connect to relay: %w", err)
	}
	defer client.Close()

	var fetcher resolve.Fetcher = client
	if c.Cache != "" {
		db, err := store.Open(c.Cache)
		if err != nil {
			return err
		}
		defer db.Close()
		fetcher = store.NewCachingFetcher(db, client, logging.Component("store"))
	}

	result, err := resolve.New(fetcher).Resolve(ctx, parsed)
	if err != nil {
		return err
	}

	for _, p := range result.Passages {
		if c.Keys {
			fmt.Println(p.Key)
			continue
		}
		fmt.Printf("[%s]\n%s\n\n", p.Key, p.Record.Content)
	}
	for _, u := range result.Unresolved {
		fmt.Fprintf(os.Stderr, "unresolved: %s %s (%s): %v\n",
			u.Reference.Title, u.Reference.RawSections, u.Version, u.Err)
	}

	return c.writeSnapshot(result)
}

// writeSnapshot exports the distinct resolved records as an xz snapshot.
func (c *ResolveCmd) writeSnapshot(result *resolve.Result) error {
	if c.Out == "" {
		return nil
	}
	seen := make(map[string]bool)
	recs := make([]record.Record, 0, len(result.Passages))
	for _, p := range result.Passages {
		if seen[p.Record.ID] {
			continue
		}
		seen[p.Record.ID] = true
		recs = append(recs, p.Record)
	}
	if err := archive.Write(c.Out, c.Citation, recs); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d records to %s\n", len(recs), c.Out)
	return nil
}

// SnapshotGroup contains snapshot file operations.
type SnapshotGroup struct {
	Show   SnapshotShowCmd   `cmd:"" help:"List the records in a snapshot"`
	Verify SnapshotVerifyCmd `cmd:"" help:"Recompute record ids in a snapshot and report mismatches"`
}

// SnapshotShowCmd lists the contents of a snapshot file.
type SnapshotShowCmd struct {
	Path    string `arg:"" help:"Snapshot path" type:"existingfile"`
	Content bool   `help:"Include record content"`
}

func (c *SnapshotShowCmd) Run() error {
	snap, err := archive.Read(c.Path)
	if err != nil {
		return err
	}
	if snap.Citation != "" {
		fmt.Printf("Citation: %s\n", snap.Citation)
	}
	fmt.Printf("Created:  %s\n", time.Unix(snap.CreatedAt, 0).UTC().Format(time.RFC3339))
	fmt.Printf("Records:  %d\n", len(snap.Records))
	for _, rec := range snap.Records {
		title, _ := rec.First(record.TagTitle)
		chapter, _ := rec.First(record.TagChapter)
		section, _ := rec.First(record.TagSection)
		fmt.Printf("  %s kind=%d %s/%s/%s\n", rec.ID, rec.Kind, title, chapter, section)
		if c.Content {
			fmt.Printf("    %s\n", rec.Content)
		}
	}
	return nil
}

// SnapshotVerifyCmd checks snapshot record integrity.
type SnapshotVerifyCmd struct {
	Path string `arg:"" help:"Snapshot path" type:"existingfile"`
}

func (c *SnapshotVerifyCmd) Run() error {
	snap, err := archive.Read(c.Path)
	if err != nil {
		return err
	}
	bad := archive.Verify(snap)
	if len(bad) > 0 {
		for _, id := range bad {
			fmt.Fprintf(os.Stderr, "MISMATCH: %s\n", id)
		}
		return fmt.Errorf("%d of %d records failed verification", len(bad), len(snap.Records))
	}
	fmt.Printf("OK: %d records verified\n", len(snap.Records))
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("wikistr %s\n", version)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("wikistr"),
		kong.Description("Wiki citation resolver for tagged relay records"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logFormat())
	err := kctx.Run(kctx)
	kctx.FatalIfErrorf(err)
}

func logFormat() logging.Format {
	if CLI.LogJSON {
		return logging.FormatJSON
	}
	return logging.FormatText
}
