// Command bibleinsight ingests DBL text releases into the scripture store
// and exposes the reference classifier from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/bibleinsight/core/ref"
	"github.com/FocuswithJustin/bibleinsight/core/sqlite"
	"github.com/FocuswithJustin/bibleinsight/core/versification"
	"github.com/FocuswithJustin/bibleinsight/internal/artifact"
	"github.com/FocuswithJustin/bibleinsight/internal/bundle"
	"github.com/FocuswithJustin/bibleinsight/internal/config"
	"github.com/FocuswithJustin/bibleinsight/internal/graph"
	"github.com/FocuswithJustin/bibleinsight/internal/ingest"
	"github.com/FocuswithJustin/bibleinsight/internal/logging"
	"github.com/FocuswithJustin/bibleinsight/internal/store"
	"github.com/FocuswithJustin/bibleinsight/internal/validation"
)

const version = "0.1.0"

// out receives command output; logs go to stderr.
var out io.Writer = os.Stdout

// CLI defines the command-line interface for bibleinsight.
var CLI struct {
	// Global flags
	Config   string `name:"config" short:"c" help:"Configuration file (YAML)" type:"path" env:"BIBLEINSIGHT_CONFIG"`
	Driver   string `name:"driver" help:"Database driver (sqlite or postgres), overrides the config file" env:"BIBLEINSIGHT_DRIVER"`
	DSN      string `name:"dsn" help:"Database DSN, overrides the config file" env:"BIBLEINSIGHT_DSN"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error), overrides the config file"`

	Ingest  IngestCmd  `cmd:"" help:"Ingest a DBL text release (directory, zip or tar archive)"`
	Migrate MigrateCmd `cmd:"" help:"Create the database schema and the canonical book table"`
	Seed    SeedCmd    `cmd:"" help:"Seed canonical chapters and verses from a versification file"`
	Ref     RefGroup   `cmd:"" help:"Scripture reference tools"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// RefGroup contains reference classification operations.
type RefGroup struct {
	Classify RefClassifyCmd `cmd:"" help:"Classify a locator and print its shape"`
	Fragment RefFragmentCmd `cmd:"" help:"Expand a locator into atomic fragments"`
}

// IngestCmd runs a whole translation.
type IngestCmd struct {
	Bundle      string `arg:"" help:"Path to the DBL bundle" type:"path"`
	DBLID       string `name:"dbl-id" help:"DBL id (defaults to the metadata id)"`
	AgreementID string `name:"agreement-id" required:"" help:"License agreement id"`
	TextStream  string `name:"text-stream" help:"Write verse text as JSON lines to this file, overrides the config file" type:"path"`
	NoGraph     bool   `name:"no-graph" help:"Skip the cross-reference graph even when configured"`
}

func (c *IngestCmd) Run() error {
	if err := validation.ValidatePath(c.Bundle); err != nil {
		return fmt.Errorf("invalid bundle path: %w", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b, err := bundle.Open(c.Bundle)
	if err != nil {
		return fmt.Errorf("failed to open bundle: %w", err)
	}

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	sink, closeSink, err := openArtifacts(ctx, cfg.Artifacts)
	if err != nil {
		return err
	}
	defer closeSink()

	var proj *graph.Projector
	if !c.NoGraph {
		proj, err = graph.New(ctx, graph.Config{
			URI:      cfg.Graph.URI,
			User:     cfg.Graph.User,
			Password: cfg.Graph.Password,
			Database: cfg.Graph.Database,
		})
		if err != nil {
			return err
		}
		defer proj.Close(context.Background())
	}

	in := &ingest.Ingester{Store: s, Artifacts: sink, Graph: proj}
	streamPath := cfg.TextStream.Path
	if c.TextStream != "" {
		streamPath = c.TextStream
	}
	var verses *ingest.JSONLSink
	if streamPath != "" {
		verses, err = ingest.CreateJSONL(streamPath)
		if err != nil {
			return err
		}
		in.Verses = verses
	}

	run, err := in.Run(ctx, b, ingest.Options{DBLID: c.DBLID, AgreementID: c.AgreementID})
	if verses != nil {
		// The last buffered lines reach the file only on Close.
		if cerr := verses.Close(); cerr != nil && err == nil {
			return fmt.Errorf("failed to write text stream %s: %w", streamPath, cerr)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", c.Bundle, err)
	}

	fmt.Fprintln(out, run)
	for _, book := range run.Books {
		fmt.Fprintf(out, "  %-4s %3d chapters  %5d verses  %4d notes  %4d fragments\n",
			book.Book, book.Chapters, book.Verses, book.Notes, book.Fragments)
	}
	if len(run.BooksFailed) > 0 {
		fmt.Fprintf(out, "Failed: %s\n", strings.Join(run.BooksFailed, ", "))
	}
	return nil
}

// MigrateCmd creates the schema.
type MigrateCmd struct{}

func (c *MigrateCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openStore(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	fmt.Fprintf(out, "Migrated %s database\n", s.Dialect())
	return nil
}

// SeedCmd seeds canonical rows.
type SeedCmd struct {
	Vrs string `arg:"" optional:"" help:"Versification file (defaults to the built-in English table)" type:"path"`
}

func (c *SeedCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	v, err := readVersification(c.Vrs)
	if err != nil {
		return err
	}
	ctx := context.Background()
	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	chapters, verses, err := ingest.Seed(ctx, s, v)
	if err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	fmt.Fprintf(out, "Seeded %d chapters and %d verses\n", chapters, verses)
	return nil
}

// RefClassifyCmd prints the classification of a locator.
type RefClassifyCmd struct {
	Locator []string `arg:"" help:"Locator, e.g. \"2KI 6:31-7:20\""`
}

func (c *RefClassifyCmd) Run() error {
	loc, err := ref.Classify(strings.Join(c.Locator, " "))
	if err != nil {
		return err
	}
	slots := make([]string, 0, 3)
	for _, s := range loc.Shape.Slots() {
		slots = append(slots, string(s))
	}
	fmt.Fprintf(out, "normalized: %s\n", loc.Normalized)
	fmt.Fprintf(out, "shape:      %s\n", loc.Shape)
	fmt.Fprintf(out, "slots:      %s\n", strings.Join(slots, ","))
	fmt.Fprintf(out, "key:        %s\n", loc.String())
	fmt.Fprintf(out, "standard:   %t\n", loc.Standard())
	return nil
}

// RefFragmentCmd prints the fragments of a locator.
type RefFragmentCmd struct {
	Locator []string `arg:"" help:"Locator, e.g. \"JOS 3-4\""`
	Vrs     string   `name:"vrs" help:"Versification file for verse counts" type:"path"`
}

func (c *RefFragmentCmd) Run() error {
	v, err := readVersification(c.Vrs)
	if err != nil {
		return err
	}
	_, frags, err := ref.Resolve(strings.Join(c.Locator, " "), v)
	if err != nil {
		return err
	}
	for i, f := range frags {
		parent := "-"
		if f.Parent >= 0 {
			parent = fmt.Sprint(f.Parent)
		}
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", i, parent, f.Shape, f.String())
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(out, "bibleinsight version %s (sqlite: %s, %s)\n", version, info.Package, info.DriverType)
	return nil
}

// Helper functions

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.Driver != "" {
		cfg.Database.Driver = CLI.Driver
	}
	if CLI.DSN != "" {
		cfg.Database.DSN = CLI.DSN
	}
	if CLI.LogLevel != "" {
		cfg.Logging.Level = CLI.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format)
	return cfg, nil
}

// openStore connects and migrates.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	dialect, err := store.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, dialect, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// openArtifacts builds the configured artifact sink and its cleanup.
func openArtifacts(ctx context.Context, cfg config.Artifacts) (artifact.Sink, func(), error) {
	switch cfg.Backend {
	case "file":
		sink, err := artifact.NewFileSink(cfg.Dir, cfg.Compress)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() {}, nil
	case "gcs":
		sink, err := artifact.NewGCSSink(ctx, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() { sink.Close() }, nil
	}
	return artifact.Discard, func() {}, nil
}

// readVersification parses path, or returns the built-in table when path
// is empty.
func readVersification(path string) (*versification.Versification, error) {
	if path == "" {
		return versification.Default(), nil
	}
	if err := validation.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid versification path: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open versification: %w", err)
	}
	defer f.Close()
	return versification.Parse(f)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("bibleinsight"),
		kong.Description("Scripture ingestion and reference resolution"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
