package dataset

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestLoadUTF8InfersKinds(t *testing.T) {
	p := writeFile(t, "wines.csv", []byte("name,score,price,organic\n"+
		"Merlot,91,12.5,True\n"+
		"Syrah,88,,False\n"+
		"Rioja,NA,9,true\n"))

	ds, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "wines", ds.Name)
	assert.Equal(t, EncodingUTF8, ds.Encoding)
	assert.Equal(t, 3, ds.Rows)
	require.Len(t, ds.Columns, 4)

	name, score, price, organic := ds.Columns[0], ds.Columns[1], ds.Columns[2], ds.Columns[3]
	assert.Equal(t, KindCategorical, name.Kind)
	assert.Equal(t, "object", name.DType)

	assert.Equal(t, KindNumeric, score.Kind)
	assert.Equal(t, "float64", score.DType, "a missing cell promotes ints to float64")
	assert.Equal(t, 1, score.MissingCount())
	assert.True(t, math.IsNaN(score.Numbers[2]))
	assert.Equal(t, []float64{91, 88}, score.Present())

	assert.Equal(t, KindNumeric, price.Kind)
	assert.Equal(t, 1, price.MissingCount())

	assert.Equal(t, KindCategorical, organic.Kind)
	assert.Equal(t, "bool", organic.DType)
	assert.Len(t, ds.NumericColumns(), 2)
}

func TestLoadIntColumn(t *testing.T) {
	p := writeFile(t, "ints.csv", []byte("a\n1\n2\n3\n"))
	ds, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "int64", ds.Columns[0].DType)
}

func TestLoadFallsBackToLatin1(t *testing.T) {
	text := "city,population\nMünchen,1500000\nMálaga,570000\nZürich,420000\n"
	latin, err := charmap.ISO8859_1.NewEncoder().String(text)
	require.NoError(t, err)
	p := writeFile(t, "cities.csv", []byte(latin))

	var notes []string
	ds, err := Load(p, func(format string, args ...any) {
		notes = append(notes, format)
	})
	require.NoError(t, err)
	assert.Equal(t, EncodingLatin1, ds.Encoding)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "Trying ISO-8859-1")

	// Manual parse under the fallback encoding must agree on shape.
	decoded, err := charmap.ISO8859_1.NewDecoder().String(latin)
	require.NoError(t, err)
	recs, err := csv.NewReader(strings.NewReader(decoded)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, len(recs)-1, ds.Rows)
	assert.Equal(t, len(recs[0]), len(ds.Columns))
	assert.Equal(t, "München", ds.Columns[0].Raw[0])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open csv")
}

func TestLoadMalformedCSV(t *testing.T) {
	p := writeFile(t, "bad.csv", []byte("a,b\n\"unterminated,1\n"))
	_, err := Load(p, nil)
	require.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	p := writeFile(t, "empty.csv", nil)
	_, err := Load(p, nil)
	require.Error(t, err)
}

func TestLoadPadsRaggedRowsAndStripsBOM(t *testing.T) {
	p := writeFile(t, "ragged.csv", []byte("\xef\xbb\xbfa,b,c\n1,2\n4,5,6\n"))
	ds, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", ds.Columns[0].Name)
	assert.Equal(t, 1, ds.Columns[2].MissingCount())
}

func TestLoadTSV(t *testing.T) {
	p := writeFile(t, "data.tsv", []byte("x\ty\n1\tfoo\n2\tbar\n"))
	ds, err := Load(p, nil)
	require.NoError(t, err)
	require.Len(t, ds.Columns, 2)
	assert.Equal(t, KindNumeric, ds.Columns[0].Kind)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"region", "sales"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"north", 10}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"south", 12.5}))
	p := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(p))

	ds, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "sales", ds.Name)
	assert.Equal(t, 2, ds.Rows)
	assert.Equal(t, KindCategorical, ds.Columns[0].Kind)
	assert.Equal(t, KindNumeric, ds.Columns[1].Kind)
}
