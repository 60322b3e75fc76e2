// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// transcodeChunk is both the detection sample size and the streaming chunk
// size used while transcoding.
const transcodeChunk = 8192

// ingest dispatches on the file extension and binds the parsed file to the
// virtual table name.
func (r *Reader) ingest(ctx context.Context) error {
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".parquet":
		return r.bind(ctx, "read_parquet("+quoteLiteral(r.path)+")")
	case ".json":
		return r.bind(ctx, "read_json_auto("+quoteLiteral(r.path)+")")
	case ".csv":
		return r.ingestCSV(ctx)
	default:
		return fmt.Errorf("open %s: %w", r.path, ErrUnsupportedFormat)
	}
}

// bind creates the base relation over source and the current view over the
// base relation, then computes the initial metadata. The metadata refresh
// scans the file, so parse and encoding errors surface here.
func (r *Reader) bind(ctx context.Context, source string) error {
	stmts := []string{
		"CREATE OR REPLACE VIEW " + quoteIdent(r.tableName) + " AS SELECT * FROM " + source,
		"CREATE OR REPLACE VIEW " + quoteIdent(r.viewName()) +
			" AS SELECT * FROM " + quoteIdent(r.tableName),
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("open %s: %w", r.path, err)
		}
	}
	if err := r.refresh(ctx); err != nil {
		return fmt.Errorf("open %s: %w", r.path, err)
	}
	return nil
}

// ingestCSV parses the CSV as UTF-8 first. When that fails it detects the
// encoding from a byte sample, stream-transcodes the whole file to a
// temporary UTF-8 file and parses that instead. The temporary file lives as
// long as the Reader and is removed before any retry.
func (r *Reader) ingestCSV(ctx context.Context) error {
	r.removeTemp()
	direct := r.bind(ctx, "read_csv("+quoteLiteral(r.path)+")")
	if direct == nil {
		return nil
	}
	r.log.Warn("utf-8 csv parse failed, retrying with detected encoding",
		"path", r.path, "error", direct)

	enc, name := detectEncoding(r.path)
	r.log.Info("transcoding csv", "path", r.path, "encoding", name)
	tmp, err := transcodeToUTF8(r.path, enc)
	if err != nil {
		return fmt.Errorf("open %s: %w (transcoding from %s: %v)", r.path, ErrIngest, name, err)
	}
	r.tmpCSV = tmp
	if err := r.bind(ctx, "read_csv("+quoteLiteral(tmp)+")"); err != nil {
		r.removeTemp()
		return fmt.Errorf("open %s: %w (%v)", r.path, ErrIngest, err)
	}
	return nil
}

// detectEncoding samples the head of the file and runs statistical charset
// detection, defaulting to windows-1252 when the result is inconclusive.
func detectEncoding(path string) (encoding.Encoding, string) {
	f, err := os.Open(path)
	if err != nil {
		return charmap.Windows1252, "windows-1252"
	}
	defer f.Close()

	sample := make([]byte, transcodeChunk)
	n, err := io.ReadFull(f, sample)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return charmap.Windows1252, "windows-1252"
	}

	result, err := chardet.NewTextDetector().DetectBest(sample[:n])
	if err != nil || result == nil || result.Charset == "" {
		return charmap.Windows1252, "windows-1252"
	}
	enc, err := ianaindex.IANA.Encoding(result.Charset)
	if err != nil || enc == nil {
		return charmap.Windows1252, "windows-1252"
	}
	return enc, result.Charset
}

// transcodeToUTF8 streams the whole file through the decoder in fixed-size
// chunks into a temporary UTF-8 file and returns the temporary path.
func transcodeToUTF8(path string, enc encoding.Encoding) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "parvu-*.csv")
	if err != nil {
		return "", err
	}

	buf := make([]byte, transcodeChunk)
	if _, err := io.CopyBuffer(tmp, transform.NewReader(src, enc.NewDecoder()), buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// removeTemp deletes the temporary transcoded file, if any. Deleting a file
// that is already gone is not an error.
func (r *Reader) removeTemp() {
	if r.tmpCSV == "" {
		return
	}
	if err := os.Remove(r.tmpCSV); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.log.Warn("failed to remove temp csv", "path", r.tmpCSV, "error", err)
	}
	r.tmpCSV = ""
}
