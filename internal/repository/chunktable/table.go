// Package chunktable reads pre-extracted course chunks from parquet row tables.
//
// Slide tables carry file, page and text columns; lab tables carry file and
// text. Rows without text are skipped and the remaining rows keep file order,
// so row i lines up with vector i of the matching index.
package chunktable

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/chunk"
)

const readBatch = 1000

// columns holds leaf-level column indexes resolved by name; -1 when absent.
type columns struct {
	file int
	page int
	text int
}

// Load reads a row table for the given source.
func Load(path string, source chunk.Source) ([]chunk.Chunk, error) {
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, source)
	}

	h, err := openParquet(path)
	if err != nil {
		return nil, fmt.Errorf("%s table %s: %w", source, path, err)
	}
	defer h.Close()

	cols := resolveColumns(h.pf)
	if cols.text < 0 {
		return nil, fmt.Errorf("%s table %s: text column not found", source, path)
	}
	if cols.file < 0 {
		return nil, fmt.Errorf("%s table %s: file column not found", source, path)
	}
	if source == chunk.Lab {
		cols.page = -1
	}

	out := make([]chunk.Chunk, 0, h.pf.NumRows())
	for _, rg := range h.pf.RowGroups() {
		if out, err = readRowGroup(rg, cols, out); err != nil {
			return nil, fmt.Errorf("%s table %s: %w", source, path, err)
		}
	}
	return out, nil
}

func resolveColumns(pf *parquet.File) columns {
	cols := columns{file: -1, page: -1, text: -1}
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
		case "file":
			cols.file = i
		case "page":
			cols.page = i
		case "text":
			cols.text = i
		}
	}
	return cols
}

func readRowGroup(rg parquet.RowGroup, cols columns, out []chunk.Chunk) ([]chunk.Chunk, error) {
	rows := parquet.NewRowGroupReader(rg)
	buf := make([]parquet.Row, readBatch)

	for {
		n, readErr := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			if c, ok := rowToChunk(buf[i], cols); ok {
				out = append(out, c)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("read rows: %w", readErr)
		}
	}
}

// rowToChunk reports false for rows whose text is null.
func rowToChunk(row parquet.Row, cols columns) (chunk.Chunk, bool) {
	var (
		file, text       string
		hasText, hasPage bool
		page             int
	)

	for _, v := range row {
		switch v.Column() {
		case cols.file:
			if !v.IsNull() {
				file = v.String()
			}
		case cols.text:
			if !v.IsNull() {
				text = v.String()
				hasText = true
			}
		case cols.page:
			page, hasPage = pageValue(v)
		}
	}

	if !hasText {
		return chunk.Chunk{}, false
	}
	if hasPage {
		return chunk.NewWithPage(file, page, text), true
	}
	return chunk.New(file, text), true
}

// pageValue accepts integer columns and the float columns pandas writes when
// a page column contains NaN.
func pageValue(v parquet.Value) (int, bool) {
	if v.IsNull() {
		return 0, false
	}
	switch v.Kind() {
	case parquet.Int32:
		return int(v.Int32()), true
	case parquet.Int64:
		return int(v.Int64()), true
	case parquet.Float:
		return floatPage(float64(v.Float()))
	case parquet.Double:
		return floatPage(v.Double())
	default:
		return 0, false
	}
}

func floatPage(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// parquetHandle wraps parquet.File + underlying os.File for proper cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &parquetHandle{pf: pf, file: f}, nil
}
