// Command xlbridge reads and edits workbooks through the bridge.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/xlsx-bridge/bridge"
	"github.com/wippyai/xlsx-bridge/engine"
	"github.com/wippyai/xlsx-bridge/schema"
)

var (
	optionsPath string
	logLevel    string
	showStats   bool
	memoryPages uint32
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlbridge",
		Short: "Read and edit XLSX workbooks through the xlsx bridge",
		Long: `xlbridge drives excelize through the flat memory boundary used by the
bridge package. Every command opens its own bridge and closes it on exit.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&optionsPath, "options", "", "YAML file with workbook options")
	pf.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.BoolVar(&showStats, "stats", false, "Print heap usage before exit")
	pf.Uint32Var(&memoryPages, "memory-pages", bridge.DefaultMemoryLimitPages, "Linear memory limit in 64 KiB pages (at most 16384)")

	rootCmd.AddCommand(
		sheetsCmd(),
		rowsCmd(),
		cellCmd(),
		styleCmd(),
		coordsCmd(),
		stylizeCmd(),
		viewCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	return cfg.Build()
}

func loadOptions() (*schema.Options, error) {
	if optionsPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(optionsPath)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	var opts schema.Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// session is the state every command runs with.
type session struct {
	b    *bridge.Bridge
	opts *schema.Options
	log  *zap.Logger
}

// withSession starts a bridge, runs fn and tears everything down.
func withSession(ctx context.Context, fn func(*session) error) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	engine.SetLogger(log.Named("engine"))
	bridge.SetLogger(log.Named("bridge"))

	opts, err := loadOptions()
	if err != nil {
		return err
	}

	b, err := bridge.New(ctx, bridge.WithMemoryLimitPages(memoryPages), bridge.WithLogger(log.Named("bridge")))
	if err != nil {
		return fmt.Errorf("start bridge: %w", err)
	}
	defer b.Close(ctx)

	err = fn(&session{b: b, opts: opts, log: log})
	if showStats {
		printStats(b.Stats())
	}
	return err
}

// open opens path and registers its close with the session.
func (s *session) open(ctx context.Context, path string) (*bridge.Document, func(), error) {
	doc, err := s.b.OpenFile(ctx, path, s.opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return doc, func() {
		if err := doc.Close(ctx); err != nil {
			s.log.Warn("close document", zap.String("path", path), zap.Error(err))
		}
	}, nil
}

func printStats(st bridge.Stats) {
	fmt.Fprintf(os.Stderr, "memory:    %s (heap end %s, free %s)\n",
		humanize.IBytes(uint64(st.Heap.MemoryBytes)),
		humanize.IBytes(uint64(st.Heap.HeapEnd)),
		humanize.IBytes(st.Heap.FreeBytes))
	fmt.Fprintf(os.Stderr, "host:      %d live blocks, %s, %s allocs, %s frees\n",
		st.Heap.Host.LiveBlocks, humanize.IBytes(st.Heap.Host.LiveBytes),
		humanize.Comma(int64(st.Heap.Host.TotalAllocs)), humanize.Comma(int64(st.Heap.Host.TotalFrees)))
	fmt.Fprintf(os.Stderr, "engine:    %d live blocks, %s, %s allocs, %s frees\n",
		st.Heap.Engine.LiveBlocks, humanize.IBytes(st.Heap.Engine.LiveBytes),
		humanize.Comma(int64(st.Heap.Engine.TotalAllocs)), humanize.Comma(int64(st.Heap.Engine.TotalFrees)))
	fmt.Fprintf(os.Stderr, "documents: %d open, %d envelopes pending\n", st.Documents, st.Pending)
}
