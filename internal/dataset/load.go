package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "iso-8859-1"
)

var nan = math.NaN()

// Notifier receives console diagnostics emitted while loading.
type Notifier func(format string, args ...any)

// Load reads a CSV, TSV or XLSX file into a Dataset. CSV input is decoded as
// UTF-8 and falls back to ISO-8859-1 when the bytes are not valid UTF-8.
func Load(path string, notify Notifier) (*Dataset, error) {
	if notify == nil {
		notify = func(string, ...any) {}
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		header, rows, err := loadXLSX(path)
		if err != nil {
			return nil, err
		}
		ds := build(header, rows)
		ds.Name, ds.Path, ds.Encoding = name, path, EncodingUTF8
		return ds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	enc := EncodingUTF8
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		notify("UTF-8 decoding failed for %s. Trying ISO-8859-1...", filepath.Base(path))
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", EncodingLatin1, err)
		}
		data = decoded
		enc = EncodingLatin1
	}

	header, rows, err := parseCSV(bytes.NewReader(data), sniffDelimiter(path))
	if err != nil {
		return nil, err
	}
	ds := build(header, rows)
	ds.Name, ds.Path, ds.Encoding = name, path, enc
	return ds, nil
}

func parseCSV(r io.Reader, delim rune) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("read header: file is empty")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

func loadXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("open xlsx: workbook has no sheets")
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("read sheet %q: sheet is empty", sheets[0])
	}
	return all[0], all[1:], nil
}

// build transposes rows into columns, padding ragged rows with blanks.
func build(header []string, rows [][]string) *Dataset {
	ds := &Dataset{Rows: len(rows)}
	ds.Columns = make([]Column, len(header))
	for j, h := range header {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}
		ds.Columns[j] = newColumn(name, raw)
	}
	return ds
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
