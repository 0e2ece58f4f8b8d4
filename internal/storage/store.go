package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/san-kum/takens/internal/analysis"
	"github.com/san-kum/takens/internal/config"
	"github.com/san-kum/takens/internal/engine"
)

var ErrRunNotFound = errors.New("run not found")

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                 string          `json:"id"`
	Timestamp          time.Time       `json:"timestamp"`
	Config             config.Config   `json:"config"`
	Bounds             engine.Bounds   `json:"bounds"`
	FirstNeighborFrame int             `json:"first_neighbor_frame"`
	Skill              analysis.Report `json:"skill"`
}

// NewMetadata describes eng without assigning a run id.
func NewMetadata(eng *engine.Engine, report analysis.Report) RunMetadata {
	return RunMetadata{
		Timestamp:          time.Now(),
		Config:             eng.Config(),
		Bounds:             eng.Bounds(),
		FirstNeighborFrame: eng.FirstNeighborFrame(),
		Skill:              report,
	}
}

// Save writes the metadata and the full series table of eng into a new run
// directory and returns the run id.
func (s *Store) Save(eng *engine.Engine, report analysis.Report) (string, error) {
	meta := NewMetadata(eng, report)
	meta.ID = fmt.Sprintf("lorenz_%s_%d", eng.Config().Integrator, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	if err := writeFile(filepath.Join(runDir, seriesFile), func(w io.Writer) error {
		return WriteCSV(w, eng)
	}); err != nil {
		return "", fmt.Errorf("write series: %w", err)
	}

	return meta.ID, nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int { return a.Timestamp.Compare(b.Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// Table is a loaded series file: one column name per value in each row.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Column returns a copy of the named column, or nil if it does not exist.
func (t *Table) Column(name string) []float64 {
	j := slices.Index(t.Columns, name)
	if j < 0 {
		return nil
	}
	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col
}

func (s *Store) LoadSeries(runID string) (*Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	table := &Table{
		Columns: records[0],
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for i, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: line %d column %s: %w", runID, i+2, table.Columns[j], err)
			}
			row[j] = v
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
