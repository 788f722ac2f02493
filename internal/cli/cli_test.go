package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aidanlsb/mtpoi/internal/config"
	"github.com/aidanlsb/mtpoi/internal/export"
	"github.com/aidanlsb/mtpoi/internal/history"
	"github.com/aidanlsb/mtpoi/internal/index"
	"github.com/aidanlsb/mtpoi/internal/source"
	"github.com/aidanlsb/mtpoi/internal/testutil"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case out := <-outputCh:
		return out
	case err := <-errCh:
		t.Fatalf("read captured stdout: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out reading captured stdout")
	}
	return ""
}

// useConfig installs c as the loaded config with JSON output on, and
// restores the globals afterwards.
func useConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prevCfg, prevJSON, prevLogger := cfg, jsonOutput, logger
	t.Cleanup(func() {
		cfg, jsonOutput, logger = prevCfg, prevJSON, prevLogger
		extractOnly = nil
		taxonomyType = ""
		checkStrictWarnings = false
		areasFlag = ""
	})
	cfg = c
	jsonOutput = true
	logger = zap.NewNop()
}

type envelope struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

func decodeEnvelope(t *testing.T, out string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), "output: %s", out)
	return env
}

func jejuConfig(t *testing.T) *config.Config {
	t.Helper()
	dump := testutil.JejuDump(t)
	c := config.Default()
	c.DumpRoot = dump.Path
	c.OutputDir = t.TempDir()
	return c
}

func TestExtractWritesOutputsAndIndex(t *testing.T) {
	c := jejuConfig(t)
	c.IndexPath = filepath.Join(t.TempDir(), "mtpoi.db")
	useConfig(t, c)
	extractCmd.SetContext(context.Background())

	var runErr error
	out := captureStdout(t, func() { runErr = runExtract(extractCmd, nil) })
	require.NoError(t, runErr)

	env := decodeEnvelope(t, out)
	require.True(t, env.OK, "output: %s", out)
	assert.Empty(t, env.Warnings)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 5, env.Meta.Count)

	var view struct {
		Files      []export.Written `json:"files"`
		DropPoints int              `json:"drop_points_updated"`
		Index      *indexView       `json:"index"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 1, view.DropPoints)

	records := map[string]int{}
	for _, f := range view.Files {
		records[filepath.Base(f.Path)] = f.Records
		assert.FileExists(t, f.Path)
	}
	assert.Equal(t, map[string]int{
		export.FileAreaVolume:    2,
		export.FileDeliveryPoint: 2,
		export.FileBusStop:       2,
		export.FileEvCharger:     1,
		export.FileHouse:         1,
	}, records)

	require.NotNil(t, view.Index)
	assert.Equal(t, int64(2), view.Index.Counts["delivery_points"])
	assert.Equal(t, int64(2), view.Index.Counts["areas"])

	// The run is recorded in the history.
	out = captureStdout(t, func() { runErr = historyCmd.RunE(historyCmd, nil) })
	require.NoError(t, runErr)
	env = decodeEnvelope(t, out)
	require.True(t, env.OK)
	var hist struct {
		Runs []history.Entry `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	require.Len(t, hist.Runs, 1)
	assert.Equal(t, []string{"delivery", "bus", "charger", "house"}, hist.Runs[0].Categories)
	assert.Equal(t, 2, hist.Runs[0].Records[export.FileDeliveryPoint])
	assert.Equal(t, int64(2), hist.Runs[0].Index["delivery_points"])

	// The written outputs pass the checker.
	out = captureStdout(t, func() { runErr = checkCmd.RunE(checkCmd, []string{c.OutputDir}) })
	require.NoError(t, runErr)
	assert.True(t, decodeEnvelope(t, out).OK, "output: %s", out)
}

func TestExtractOnlySelectsCategories(t *testing.T) {
	useConfig(t, jejuConfig(t))
	extractOnly = []string{"bus"}
	extractCmd.SetContext(context.Background())

	var runErr error
	out := captureStdout(t, func() { runErr = runExtract(extractCmd, nil) })
	require.NoError(t, runErr)

	env := decodeEnvelope(t, out)
	require.True(t, env.OK)
	var view struct {
		Files []export.Written `json:"files"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	var names []string
	for _, f := range view.Files {
		names = append(names, filepath.Base(f.Path))
	}
	assert.ElementsMatch(t, []string{export.FileAreaVolume, export.FileBusStop}, names)
}

func TestExtractReportsMissingDump(t *testing.T) {
	c := config.Default()
	c.DumpRoot = t.TempDir()
	c.OutputDir = t.TempDir()
	useConfig(t, c)
	extractCmd.SetContext(context.Background())

	var runErr error
	out := captureStdout(t, func() { runErr = runExtract(extractCmd, nil) })

	var reported errReported
	require.True(t, errors.As(runErr, &reported), "got %v", runErr)
	env := decodeEnvelope(t, out)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrFileNotFound, env.Error.Code)
	assert.NotEmpty(t, env.Error.Suggestion)

	entries, err := os.ReadDir(c.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written or recorded when extraction fails")
}

func TestExtractRejectsUnknownCategory(t *testing.T) {
	useConfig(t, jejuConfig(t))
	extractOnly = []string{"trains"}
	extractCmd.SetContext(context.Background())

	out := captureStdout(t, func() { _ = runExtract(extractCmd, nil) })
	env := decodeEnvelope(t, out)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrInvalidInput, env.Error.Code)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"cancelled", fmt.Errorf("world: %w", context.Canceled), ErrCancelled},
		{"schema gap", fmt.Errorf("farm: %w", &source.SchemaGapError{Object: "Farm_C_1", Type: "Farm_C", Field: "RootComponent"}), ErrSchemaGap},
		{"locked", fmt.Errorf("open: %w", index.ErrIndexLocked), ErrDatabaseLocked},
		{"missing", &fs.PathError{Op: "open", Path: "x.json", Err: fs.ErrNotExist}, ErrFileNotFound},
		{"unreadable", &fs.PathError{Op: "read", Path: "x.json", Err: errors.New("is a directory")}, ErrFileReadError},
		{"other", errors.New("boom"), ErrInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorCode(tc.err, ErrInternal))
		})
	}
}

func TestTaxonomyJSON(t *testing.T) {
	useConfig(t, config.Default())

	var runErr error
	out := captureStdout(t, func() { runErr = taxonomyCmd.RunE(taxonomyCmd, nil) })
	require.NoError(t, runErr)

	env := decodeEnvelope(t, out)
	require.True(t, env.OK)
	var data struct {
		Source string              `json:"source"`
		Types  map[string][]string `json:"types"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "built-in", data.Source)
	assert.Len(t, data.Types, env.Meta.Count)
	assert.NotEmpty(t, data.Types["EDeliveryCargoType::Log"])
}

func TestTaxonomyUnknownType(t *testing.T) {
	useConfig(t, config.Default())
	taxonomyType = "EDeliveryCargoType::Nope"

	var runErr error
	out := captureStdout(t, func() { runErr = taxonomyCmd.RunE(taxonomyCmd, nil) })
	require.Error(t, runErr)
	env := decodeEnvelope(t, out)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrInvalidInput, env.Error.Code)
}

func TestConfigShowJSON(t *testing.T) {
	c := config.Default()
	c.DumpRoot = "/data/dump"
	useConfig(t, c)

	out := captureStdout(t, func() { require.NoError(t, configShowCmd.RunE(configShowCmd, nil)) })
	env := decodeEnvelope(t, out)
	require.True(t, env.OK)
	var data struct {
		Config config.Config `json:"config"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "/data/dump", data.Config.DumpRoot)
	assert.True(t, data.Config.Strict)
}

func TestHandleErrorTextModeAppendsSuggestion(t *testing.T) {
	prev := jsonOutput
	t.Cleanup(func() { jsonOutput = prev })
	jsonOutput = false

	err := handleError(ErrFileNotFound, errors.New("world file missing"), "Check dump_root")
	assert.Equal(t, "world file missing\n\nCheck dump_root", err.Error())
}

func TestWatchDirs(t *testing.T) {
	c := config.Default()
	c.HousesFile = "MotorTown/Content/Maps/Jeju/Houses.json"

	assert.Equal(t, []string{
		"MotorTown/Content/Maps/Jeju",
		c.DeliveryPointDir,
		c.GeneratedDir,
	}, watchDirs(c), "the houses file shares the world file's directory")

	paths := outputPaths("out")
	assert.Len(t, paths, len(export.Files))
	assert.Contains(t, paths, filepath.Join("out", export.FileHouse))
}

func TestAreasJSON(t *testing.T) {
	useConfig(t, jejuConfig(t))
	areasFlag = "smallarea"
	areasCmd.SetContext(context.Background())

	var runErr error
	out := captureStdout(t, func() { runErr = areasCmd.RunE(areasCmd, nil) })
	require.NoError(t, runErr)

	env := decodeEnvelope(t, out)
	require.True(t, env.OK)
	var data struct {
		Areas []areaView `json:"areas"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Areas, 1)
	a := data.Areas[0]
	assert.Equal(t, "harbor", a.Key)
	assert.Equal(t, 4, a.Vertices)
	require.NotNil(t, a.BBox)
	assert.Equal(t, 10.0, a.BBox.MaxX)
}

func TestFlagMatches(t *testing.T) {
	assert.True(t, flagMatches("EMTAreaVolumeFlags::Zone", ""))
	assert.True(t, flagMatches("EMTAreaVolumeFlags::Zone", "zone"))
	assert.True(t, flagMatches("EMTAreaVolumeFlags::Zone", "EMTAreaVolumeFlags::Zone"))
	assert.False(t, flagMatches("EMTAreaVolumeFlags::Zone", "RaceTrack"))
}
