// Package export writes extraction results as pretty-printed JSON arrays,
// optionally with zstd-compressed copies.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/aidanlsb/mtpoi/internal/atomicfile"
	"github.com/aidanlsb/mtpoi/internal/extract"
)

// Output file names.
const (
	FileAreaVolume    = "out_area_volume.json"
	FileDeliveryPoint = "out_delivery_point.json"
	FileBusStop       = "out_bus_stop.json"
	FileEvCharger     = "out_ev_charger.json"
	FileHouse         = "out_house.json"

	// CompressedExt is appended to compressed copies.
	CompressedExt = ".zst"
)

// Files lists every output file name.
var Files = []string{FileAreaVolume, FileDeliveryPoint, FileBusStop, FileEvCharger, FileHouse}

// Written describes one file on disk.
type Written struct {
	Path    string `json:"path"`
	Records int    `json:"records"`
	Bytes   int    `json:"bytes"`
}

// Writer writes output files into Dir.
type Writer struct {
	Dir      string
	Compress bool
	Logger   *zap.Logger
}

type pending struct {
	name    string
	records int
	data    []byte
}

// WriteResult writes one file per selected category plus the area volumes.
// Every file is staged before any is committed, so an encode or write
// failure leaves the output directory untouched.
func (w *Writer) WriteResult(res *extract.Result, cats extract.Categories) ([]Written, error) {
	var files []pending
	add := func(name string, records int, v any) error {
		data, err := Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		files = append(files, pending{name: name, records: records, data: data})
		return nil
	}

	if err := add(FileAreaVolume, len(res.Areas), orEmpty(res.Areas)); err != nil {
		return nil, err
	}
	if cats.DeliveryPoints {
		if err := add(FileDeliveryPoint, len(res.DeliveryPoints), orEmpty(res.DeliveryPoints)); err != nil {
			return nil, err
		}
	}
	if cats.BusStops {
		if err := add(FileBusStop, len(res.BusStops), orEmpty(res.BusStops)); err != nil {
			return nil, err
		}
	}
	if cats.EvChargers {
		if err := add(FileEvCharger, len(res.EvChargers), orEmpty(res.EvChargers)); err != nil {
			return nil, err
		}
	}
	if cats.Houses {
		if err := add(FileHouse, len(res.Houses), orEmpty(res.Houses)); err != nil {
			return nil, err
		}
	}
	return w.commit(files)
}

func (w *Writer) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}

func (w *Writer) commit(files []pending) ([]Written, error) {
	var staged []*atomicfile.File
	abort := func() {
		for _, f := range staged {
			_ = f.Abort()
		}
	}

	var written []Written
	var stale []string
	for _, p := range files {
		path := filepath.Join(w.Dir, p.name)
		f, err := stage(path, p.data, false)
		if err != nil {
			abort()
			return nil, err
		}
		staged = append(staged, f)
		written = append(written, Written{Path: path, Records: p.records, Bytes: len(p.data)})

		if w.Compress {
			f, err := stage(path+CompressedExt, p.data, true)
			if err != nil {
				abort()
				return nil, err
			}
			staged = append(staged, f)
			st, _ := f.Stat()
			var n int
			if st != nil {
				n = int(st.Size())
			}
			written = append(written, Written{Path: path + CompressedExt, Records: p.records, Bytes: n})
		} else {
			stale = append(stale, path+CompressedExt)
		}
	}

	for i, f := range staged {
		if err := f.Commit(); err != nil {
			for _, rest := range staged[i+1:] {
				_ = rest.Abort()
			}
			return nil, fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	// A compressed copy left by an earlier run would no longer match.
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove stale %s: %w", path, err)
		}
	}
	for _, wr := range written {
		w.logger().Debug("output written", zap.String("file", wr.Path), zap.Int("count", wr.Records), zap.Int("bytes", wr.Bytes))
	}
	return written, nil
}

// stage writes data to a pending atomic file at path, zstd-compressed when
// compress is set.
func stage(path string, data []byte, compress bool) (*atomicfile.File, error) {
	f, err := atomicfile.Create(path, 0)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := writeTo(f, data, compress); err != nil {
		_ = f.Abort()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return f, nil
}

func writeTo(dst io.Writer, data []byte, compress bool) error {
	if !compress {
		_, err := dst.Write(data)
		return err
	}
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	if _, err := bw.Write(data); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Marshal encodes v as two-space indented JSON without HTML escaping.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Open opens an output file for reading, decompressing ".zst" files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedExt) {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &zstdReadCloser{dec: dec, f: f}, nil
}

type zstdReadCloser struct {
	dec *zstd.Decoder
	f   *os.File
}

func (r *zstdReadCloser) Read(p []byte) (int, error) { return r.dec.Read(p) }

func (r *zstdReadCloser) Close() error {
	r.dec.Close()
	return r.f.Close()
}

// ReadFile reads a whole output file, decompressing ".zst" files.
func ReadFile(path string) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
