package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/mtpoi/internal/config"
	"github.com/aidanlsb/mtpoi/internal/export"
	"github.com/aidanlsb/mtpoi/internal/extract"
	"github.com/aidanlsb/mtpoi/internal/history"
	"github.com/aidanlsb/mtpoi/internal/index"
	"github.com/aidanlsb/mtpoi/internal/ui"
	"github.com/aidanlsb/mtpoi/internal/watcher"
)

var (
	extractOnly     []string
	extractWorkers  int
	extractStrict   bool
	extractCompress bool
	extractIndex    string
	extractOut      string
	extractWatch    bool
)

type timingView struct {
	Stage     string `json:"stage"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type skipView struct {
	Category string `json:"category"`
	Object   string `json:"object"`
	Error    string `json:"error"`
}

type indexView struct {
	Path   string           `json:"path"`
	Counts map[string]int64 `json:"counts"`
}

type extractView struct {
	Files       []export.Written `json:"files"`
	Timings     []timingView     `json:"timings"`
	Skipped     []skipView       `json:"skipped,omitempty"`
	DropPoints  int              `json:"drop_points_updated"`
	FilesLoaded int64            `json:"files_loaded"`
	Index       *indexView       `json:"index,omitempty"`
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract points of interest and write the output files",
	Long: `Extract points of interest from the game export and write them to the
output directory.

Every output file is staged before any is replaced, so a failed run leaves
the previous outputs in place.

Examples:
  mtpoi extract
  mtpoi extract --only delivery,bus
  mtpoi extract --strict=false --out ./out --compress
  mtpoi extract --index mtpoi.db
  mtpoi extract --watch`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	c := getConfig()
	s := settingsFromConfig(c)
	cats, err := extract.ParseCategories(extractOnly)
	if err != nil {
		return handleError(ErrInvalidInput, err, "Valid categories: delivery, bus, charger, house")
	}
	s.cats = cats
	flags := cmd.Flags()
	if flags.Changed("workers") {
		s.workers = extractWorkers
	}
	if flags.Changed("strict") {
		s.strict = extractStrict
	}
	if flags.Changed("compress") {
		s.compress = extractCompress
	}
	if flags.Changed("index") {
		s.index = extractIndex
	}
	if flags.Changed("out") {
		s.outDir = extractOut
	}

	if !extractWatch {
		return extractOnce(cmd.Context(), c, s)
	}
	return watchExtract(cmd.Context(), c, s)
}

// extractOnce runs the pipeline, writes the outputs and reports the result.
func extractOnce(ctx context.Context, c *config.Config, s runSettings) error {
	start := time.Now()
	var spinner *ui.Spinner
	if !isJSONOutput() && !verbose && !quiet {
		spinner = ui.NewSpinner("Extracting points of interest")
		spinner.Start()
	}
	res, err := runPipeline(ctx, c, s, logger)
	if err != nil {
		spinner.Stop()
		code := errorCode(err, ErrInternal)
		return handleError(code, err, extractSuggestion(code))
	}

	spinner.SetMessage("Writing outputs")
	w := &export.Writer{Dir: s.outDir, Compress: s.compress, Logger: logger}
	written, err := w.WriteResult(res, s.cats)
	spinner.Stop()
	if err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	view := extractView{
		Files:       written,
		DropPoints:  res.Propagation.Updated,
		FilesLoaded: res.FilesLoaded,
	}
	for _, t := range res.Timings {
		view.Timings = append(view.Timings, timingView{Stage: t.Stage, ElapsedMs: t.Elapsed.Milliseconds()})
	}
	for _, sk := range res.Skipped {
		view.Skipped = append(view.Skipped, skipView{Category: sk.Category, Object: sk.Object, Error: sk.Err.Error()})
	}

	if s.index != "" {
		counts, err := writeIndex(ctx, s.index, res)
		if err != nil {
			return handleError(errorCode(err, ErrDatabaseError), err, "")
		}
		view.Index = &indexView{Path: s.index, Counts: counts}
	}

	hist := history.New(s.outDir, c.History)
	if err := hist.Append(historyEntry(c, s, view, time.Since(start))); err != nil {
		logger.Warn("history not written", zap.String("path", hist.Path()), zap.Error(err))
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(view, extractWarnings(res), &Meta{
			Count:     len(written),
			ElapsedMs: time.Since(start).Milliseconds(),
		})
		return nil
	}

	printExtractSummary(view, res, time.Since(start))
	return nil
}

// watchExtract extracts once, then again after every batch of changed
// input files, until ctx is cancelled. Failed runs are reported and the
// previous outputs stay in place.
func watchExtract(ctx context.Context, c *config.Config, s runSettings) error {
	root, err := filepath.Abs(c.DumpRoot)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}
	w, err := watcher.New(watcher.Config{
		Root:   root,
		Dirs:   watchDirs(c),
		Ignore: outputPaths(s.outDir),
		Logger: logger,
		OnChange: func(ctx context.Context, changed []string) {
			logger.Info("inputs changed", zap.Int("files", len(changed)), zap.Strings("changed", changed))
			if err := extractOnce(ctx, c, s); err != nil && !isReported(err) {
				fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
			}
		},
	})
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if err := extractOnce(ctx, c, s); err != nil && !isReported(err) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	if !isJSONOutput() {
		fmt.Println(ui.Hint("Watching " + root + " for changes (Ctrl+C to stop)"))
	}
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return handleError(ErrFileReadError, err, "Check dump_root and the input paths with 'mtpoi config show'")
	}
	return nil
}

// outputPaths lists the files extraction writes, so rewriting them inside
// the dump does not trigger another run.
func outputPaths(dir string) []string {
	out := make([]string, len(export.Files))
	for i, name := range export.Files {
		out[i] = filepath.Join(dir, name)
	}
	return out
}

// watchDirs are the directories holding extraction inputs.
func watchDirs(c *config.Config) []string {
	seen := map[string]bool{}
	var dirs []string
	dirOf := func(file string) string {
		if file == "" {
			return ""
		}
		return filepath.Dir(file)
	}
	for _, d := range []string{
		dirOf(c.WorldFile),
		c.DeliveryPointDir,
		c.GeneratedDir,
		dirOf(c.HousesFile),
	} {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	return dirs
}

func historyEntry(c *config.Config, s runSettings, view extractView, elapsed time.Duration) history.Entry {
	root, err := filepath.Abs(c.DumpRoot)
	if err != nil {
		root = c.DumpRoot
	}
	e := history.Entry{
		DumpRoot:   root,
		Categories: s.cats.Names(),
		Strict:     s.strict,
		Records:    make(map[string]int, len(view.Files)),
		Skipped:    len(view.Skipped),
		DropPoints: view.DropPoints,
		ElapsedMs:  elapsed.Milliseconds(),
	}
	for _, f := range view.Files {
		e.Records[filepath.Base(f.Path)] = f.Records
	}
	if view.Index != nil {
		e.Index = view.Index.Counts
	}
	return e
}

func writeIndex(ctx context.Context, path string, res *extract.Result) (map[string]int64, error) {
	db, err := index.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.Rebuild(ctx, res); err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	counts, err := db.Counts(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("index written", zap.String("path", path))
	return counts, nil
}

func extractWarnings(res *extract.Result) []Warning {
	var warnings []Warning
	for _, sk := range res.Skipped {
		warnings = append(warnings, Warning{Code: WarnEntitySkipped, Message: sk.Err.Error(), Ref: sk.Object})
	}
	for _, l := range res.Propagation.Unknown {
		warnings = append(warnings, Warning{Code: WarnDropPointUnknown, Message: "drop point not found", Ref: l.String()})
	}
	for _, l := range res.Propagation.Cycles {
		warnings = append(warnings, Warning{Code: WarnDropPointCycle, Message: "drop point cycle cut", Ref: l.String()})
	}
	return warnings
}

func extractSuggestion(code string) string {
	switch code {
	case ErrRefInvalid, ErrSchemaGap:
		return "Run with --strict=false to skip broken entities"
	case ErrFileNotFound:
		return "Check dump_root and the input paths with 'mtpoi config show'"
	}
	return ""
}

func printExtractSummary(view extractView, res *extract.Result, elapsed time.Duration) {
	files := newTable("file", "records", "bytes")
	for _, f := range view.Files {
		files.AddRow(ui.FilePath(filepath.Base(f.Path)), fmt.Sprint(f.Records), fmt.Sprint(f.Bytes))
	}
	fmt.Print(files.String())
	fmt.Println()

	if verbose {
		timings := newTable("stage", "elapsed")
		for _, t := range res.Timings {
			timings.AddRow(t.Stage, t.Elapsed.Round(time.Millisecond).String())
		}
		fmt.Print(timings.String())
		fmt.Println()
	}

	for _, sk := range view.Skipped {
		fmt.Println(ui.Warningf("skipped %s %s: %s", sk.Category, sk.Object, sk.Error))
	}
	for _, l := range res.Propagation.Unknown {
		fmt.Println(ui.Warningf("drop point %s not found", l))
	}
	for _, l := range res.Propagation.Cycles {
		fmt.Println(ui.Warningf("drop point cycle cut at %s", l))
	}
	if view.Index != nil {
		fmt.Println(ui.Infof("index written to %s", ui.FilePath(view.Index.Path)))
	}

	msg := fmt.Sprintf("Extracted %d delivery points, %d bus stops, %d chargers, %d houses in %s",
		len(res.DeliveryPoints), len(res.BusStops), len(res.EvChargers), len(res.Houses),
		elapsed.Round(time.Millisecond))
	if n := len(view.Skipped); n > 0 {
		msg += " " + ui.Count(n, "skipped", "skipped")
	}
	fmt.Println(ui.Success(msg))
}

func init() {
	extractCmd.Flags().StringSliceVar(&extractOnly, "only", nil, "Categories to extract: delivery, bus, charger, house")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "Concurrent workers (0 = one per CPU)")
	extractCmd.Flags().BoolVar(&extractStrict, "strict", true, "Abort on the first broken entity")
	extractCmd.Flags().BoolVar(&extractCompress, "compress", false, "Also write zstd-compressed copies")
	extractCmd.Flags().StringVar(&extractIndex, "index", "", "Write a SQLite index to this path")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "Output directory (overrides output_dir)")
	extractCmd.Flags().BoolVar(&extractWatch, "watch", false, "Extract again whenever an input file changes")
	rootCmd.AddCommand(extractCmd)
}
