package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stellarlinkco/benchlab/internal/bench"
)

// LoadJSONL reads QA instances from a JSONL file, or from every
// *.jsonl file of a directory in name order. Instances without an id
// are rejected.
func LoadJSONL(ctx context.Context, path string) (Slice, error) {
	rows, err := readJSONL[*QAInstance](ctx, path)
	if err != nil {
		return nil, err
	}

	out := make(Slice, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.InstanceID) == "" {
			return nil, fmt.Errorf("dataset: %s: record %d has no id", path, i)
		}
		out = append(out, row)
	}
	return out, nil
}

func readJSONL[T any](ctx context.Context, path string) ([]T, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("dataset: empty jsonl path")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return readJSONLDir[T](ctx, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeJSONLStream[T](ctx, f)
}

func readJSONLDir[T any](ctx context.Context, dir string) ([]T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(e.Name()))
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	var out []T
	for _, p := range paths {
		items, err := readJSONL[T](ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func decodeJSONLStream[T any](ctx context.Context, r io.Reader) ([]T, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var out []T
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return out, fmt.Errorf("dataset: parse jsonl: %w", err)
		}
		out = append(out, item)
	}
	if err := sc.Err(); err != nil {
		return out, err
	}
	return out, nil
}

var _ bench.Source = Slice(nil)
