package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/takens/internal/analysis"
	"github.com/san-kum/takens/internal/embedding"
	"github.com/san-kum/takens/internal/engine"
)

// Columns lists the series table header: frame, the three coordinates, the
// six cross maps and the nine forecasts.
func Columns() []string {
	cols := []string{"frame", "x", "y", "z"}
	for _, p := range embedding.Pairs {
		cols = append(cols, CrossMapColumn(p))
	}
	for _, d := range embedding.Dimensions {
		for _, h := range embedding.Horizons {
			cols = append(cols, analysis.ForecastName(d, h))
		}
	}
	return cols
}

// CrossMapColumn names the column of cross map p, e.g. "xmap_x_y".
func CrossMapColumn(p embedding.Pair) string {
	return "xmap_" + p.From.String() + "_" + p.To.String()
}

func columnData(eng *engine.Engine) [][]float64 {
	data := make([][]float64, 0, len(Columns())-1)
	for _, d := range embedding.Dimensions {
		data = append(data, eng.Series(d))
	}
	for _, p := range embedding.Pairs {
		data = append(data, eng.CrossMapSeries(p))
	}
	for _, d := range embedding.Dimensions {
		for _, h := range embedding.Horizons {
			data = append(data, eng.ForecastSeries(d, h))
		}
	}
	return data
}

// WriteCSV writes one row per frame with every column from Columns.
func WriteCSV(w io.Writer, eng *engine.Engine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return err
	}

	data := columnData(eng)
	row := make([]string, len(data)+1)
	for i := 0; i < eng.Len(); i++ {
		row[0] = strconv.Itoa(i)
		for j, col := range data {
			row[j+1] = strconv.FormatFloat(col[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	RunMetadata
	Frames int                  `json:"frames"`
	Series map[string][]float64 `json:"series"`
}

// ExportJSON writes meta together with every series of eng, keyed by column
// name.
func ExportJSON(w io.Writer, meta RunMetadata, eng *engine.Engine) error {
	cols := Columns()[1:]
	data := ExportData{
		RunMetadata: meta,
		Frames:      eng.Len(),
		Series:      make(map[string][]float64, len(cols)),
	}
	for j, col := range columnData(eng) {
		data.Series[cols[j]] = col
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
