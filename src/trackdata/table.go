// Package trackdata loads and reduces recorded track position samples.
//
// A track sample file is a CSV with a header row and at least the columns
// track_id, x, y, z (positions in mm); one row per recorded point along a
// ray or helix through the detector. Floating point fields are parsed with
// strconv.ParseFloat, which round-trips the shortest decimal representation
// the writer produced.
package trackdata

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Table is a column-ordered set of track samples. TrackIDs runs parallel to
// the float columns; it is nil when the source file had no track_id column.
type Table struct {
	TrackIDs []int64

	names   []string
	columns map[string][]float64
}

// NewTable returns an empty table with the given float columns.
func NewTable(columns ...string) *Table {
	t := &Table{columns: make(map[string][]float64, len(columns))}
	for _, c := range columns {
		t.names = append(t.names, c)
		t.columns[c] = nil
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.names) == 0 {
		return len(t.TrackIDs)
	}
	return len(t.columns[t.names[0]])
}

// Columns returns the float column names in file order.
func (t *Table) Columns() []string { return t.names }

// Has reports whether the table carries the named float column.
func (t *Table) Has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the values of the named float column.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("track data has no column %q", name)
	}
	return col, nil
}

// Append adds one row. Values must be given in column order.
func (t *Table) Append(trackID int64, values ...float64) error {
	if len(values) != len(t.names) {
		return fmt.Errorf("expected %d values per row, got %d", len(t.names), len(values))
	}
	t.TrackIDs = append(t.TrackIDs, trackID)
	for i, name := range t.names {
		t.columns[name] = append(t.columns[name], values[i])
	}
	return nil
}

// Filter returns a new table holding only the rows for which keep is true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := NewTable(t.names...)
	for i := 0; i < t.Len(); i++ {
		if !keep(i) {
			continue
		}
		if len(t.TrackIDs) > 0 {
			out.TrackIDs = append(out.TrackIDs, t.TrackIDs[i])
		}
		for _, name := range t.names {
			out.columns[name] = append(out.columns[name], t.columns[name][i])
		}
	}
	return out
}

// NumTracks returns max(track_id)+1, the track count convention of the
// detector scans that produce these files.
func (t *Table) NumTracks() (int64, error) {
	if len(t.TrackIDs) == 0 {
		return 0, fmt.Errorf("track data has no track_id entries")
	}
	max := t.TrackIDs[0]
	for _, id := range t.TrackIDs[1:] {
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

// ReadTrackData reads a track sample CSV. An empty path yields an empty
// table and a warning, not an error; a later reduction over the empty table
// fails on its own terms.
func ReadTrackData(path string) (*Table, error) {
	if path == "" {
		Warnf("could not find navigation data file: %s", path)
		return NewTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse track data %s: %w", path, err)
	}
	if len(records) == 0 {
		return NewTable(), nil
	}

	header := records[0]
	idCol := -1
	var names []string
	for i, h := range header {
		if h == "track_id" {
			idCol = i
			continue
		}
		names = append(names, h)
	}
	t := NewTable(names...)
	values := make([]float64, len(names))
	for rowIdx, rec := range records[1:] {
		var id int64
		if idCol >= 0 {
			id, err = parseTrackID(rec[idCol])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, rowIdx+2, err)
			}
		}
		vi := 0
		for i, field := range rec {
			if i == idCol {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %q: %w", path, rowIdx+2, header[i], err)
			}
			values[vi] = v
			vi++
		}
		if err := t.Append(id, values...); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, rowIdx+2, err)
		}
	}
	if idCol < 0 {
		t.TrackIDs = nil
	}
	Debugf("loaded %d track samples (%d columns) from %s", t.Len(), len(names), path)
	return t, nil
}

func parseTrackID(s string) (int64, error) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	// Some writers emit track ids as floats.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse track_id %q: %w", s, err)
	}
	return int64(v), nil
}

// Distances computes the pointwise 3-D Euclidean distance between two
// row-aligned tables.
func Distances(a, b *Table) ([]float64, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("track tables are not row-aligned: %d vs %d rows", a.Len(), b.Len())
	}
	var ax, ay, az, bx, by, bz []float64
	var err error
	for _, c := range []struct {
		t    *Table
		name string
		dst  *[]float64
	}{
		{a, "x", &ax}, {a, "y", &ay}, {a, "z", &az},
		{b, "x", &bx}, {b, "y", &by}, {b, "z", &bz},
	} {
		if *c.dst, err = c.t.Column(c.name); err != nil {
			return nil, err
		}
	}
	dist := make([]float64, a.Len())
	for i := range dist {
		dx := ax[i] - bx[i]
		dy := ay[i] - by[i]
		dz := az[i] - bz[i]
		dist[i] = math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return dist, nil
}

// Residuals computes a[variable] - b[variable] for two row-aligned tables.
func Residuals(a, b *Table, variable string) ([]float64, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("track tables are not row-aligned: %d vs %d rows", a.Len(), b.Len())
	}
	av, err := a.Column(variable)
	if err != nil {
		return nil, err
	}
	bv, err := b.Column(variable)
	if err != nil {
		return nil, err
	}
	res := make([]float64, len(av))
	for i := range res {
		res[i] = av[i] - bv[i]
	}
	return res, nil
}
