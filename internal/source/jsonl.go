// Package source reads raw postings from the line-delimited JSON store the
// crawlers write.
package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amishk599/salarynorm/internal/model"
)

// Ensure JSONLFile implements model.RecordSource.
var _ model.RecordSource = (*JSONLFile)(nil)

// maxLineBytes bounds a single raw record; detail pages with long
// descriptions can run well past bufio's 64 KiB default.
const maxLineBytes = 4 << 20

// JSONLFile reads one RawPosting per line from a file. Blank lines are
// ignored and undecodable lines are reported in Batch.Skipped.
type JSONLFile struct {
	path string
}

// NewJSONLFile returns a source backed by the file at path.
func NewJSONLFile(path string) *JSONLFile {
	return &JSONLFile{path: path}
}

// ReadRecords decodes the whole file.
func (f *JSONLFile) ReadRecords(ctx context.Context) (model.Batch, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return model.Batch{}, fmt.Errorf("opening raw input: %w", err)
	}
	defer file.Close()

	batch, err := Decode(ctx, file)
	for _, le := range batch.Skipped {
		le.Path = f.path
	}
	if err != nil {
		return batch, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return batch, nil
}

// Decode reads postings from r until EOF or ctx is cancelled.
func Decode(ctx context.Context, r io.Reader) (model.Batch, error) {
	var batch model.Batch

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		if line%1000 == 0 && ctx.Err() != nil {
			return batch, ctx.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var p model.RawPosting
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			batch.Skipped = append(batch.Skipped, &model.LineError{Line: line, Err: err})
			continue
		}
		batch.Records = append(batch.Records, p)
	}
	if err := scanner.Err(); err != nil {
		return batch, fmt.Errorf("scanning line %d: %w", line+1, err)
	}
	return batch, ctx.Err()
}
