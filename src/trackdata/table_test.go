package trackdata

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// helper to write a CSV fixture
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracks.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadTrackData(t *testing.T) {
	path := writeCSV(t, "track_id,x,y,z\n"+
		"0,1.5,-2.25,10\n"+
		"0,0.1,0.2,20\n"+
		"1,3,4,-5\n")
	tab, err := ReadTrackData(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tab.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tab.Len())
	}
	if got := tab.Columns(); len(got) != 3 || got[0] != "x" || got[1] != "y" || got[2] != "z" {
		t.Fatalf("unexpected columns: %v", got)
	}
	x, err := tab.Column("x")
	if err != nil {
		t.Fatalf("column x: %v", err)
	}
	// ParseFloat round-trips the shortest decimal form
	if x[1] != 0.1 {
		t.Fatalf("expected exact 0.1, got %v", x[1])
	}
	if tab.TrackIDs[2] != 1 {
		t.Fatalf("unexpected track ids: %v", tab.TrackIDs)
	}
	if _, err := tab.Column("phi"); err == nil {
		t.Fatalf("expected error for missing column")
	}
}

func TestReadTrackDataEmptyPath(t *testing.T) {
	tab, err := ReadTrackData("")
	if err != nil {
		t.Fatalf("empty path must not error: %v", err)
	}
	if tab.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", tab.Len())
	}
}

func TestReadTrackDataMalformedField(t *testing.T) {
	path := writeCSV(t, "track_id,x,y,z\n0,oops,2,3\n")
	if _, err := ReadTrackData(path); err == nil {
		t.Fatalf("expected parse error for non-numeric field")
	}
}

func TestFilter(t *testing.T) {
	tab := NewTable("x", "z")
	for i := 0; i < 6; i++ {
		if err := tab.Append(int64(i), float64(i), float64(i*10)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	z, _ := tab.Column("z")
	sub := tab.Filter(func(i int) bool { return z[i] > 5 && z[i] < 45 })
	if sub.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", sub.Len())
	}
	if sub.TrackIDs[0] != 1 || sub.TrackIDs[3] != 4 {
		t.Fatalf("filter lost row alignment: %v", sub.TrackIDs)
	}
}

func TestNumTracks(t *testing.T) {
	tab := NewTable("x")
	for _, id := range []int64{0, 0, 1, 4} {
		if err := tab.Append(id, 0); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	n, err := tab.NumTracks()
	if err != nil {
		t.Fatalf("num tracks: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected max(id)+1 == 5, got %d", n)
	}
	if _, err := NewTable("x").NumTracks(); err == nil {
		t.Fatalf("expected error for empty table")
	}
}

func makeXYZ(t *testing.T, rows [][3]float64) *Table {
	t.Helper()
	tab := NewTable("x", "y", "z")
	for i, r := range rows {
		if err := tab.Append(int64(i), r[0], r[1], r[2]); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return tab
}

func TestDistances(t *testing.T) {
	a := makeXYZ(t, [][3]float64{{0, 0, 0}, {1, 1, 1}})
	b := makeXYZ(t, [][3]float64{{1, 2, 2}, {1, 1, 1}})
	dist, err := Distances(a, b)
	if err != nil {
		t.Fatalf("distances: %v", err)
	}
	if dist[0] != 3 {
		t.Fatalf("expected |(1,2,2)| == 3, got %v", dist[0])
	}
	if dist[1] != 0 {
		t.Fatalf("identical rows must have distance 0, got %v", dist[1])
	}
}

func TestDistancesIdenticalTables(t *testing.T) {
	rows := [][3]float64{{1.5, -2, 3}, {4, 5, -6}, {0.25, 0.5, 0.75}}
	dist, err := Distances(makeXYZ(t, rows), makeXYZ(t, rows))
	if err != nil {
		t.Fatalf("distances: %v", err)
	}
	for i, d := range dist {
		if d != 0 {
			t.Fatalf("row %d: expected exactly 0, got %v", i, d)
		}
	}
}

func TestDistancesMisaligned(t *testing.T) {
	a := makeXYZ(t, [][3]float64{{0, 0, 0}})
	b := makeXYZ(t, [][3]float64{{0, 0, 0}, {1, 1, 1}})
	if _, err := Distances(a, b); err == nil {
		t.Fatalf("expected error for misaligned tables")
	}
}

func TestResiduals(t *testing.T) {
	a := makeXYZ(t, [][3]float64{{1, 0, 0}, {2.5, 0, 0}, {-3, 0, 0}})
	b := makeXYZ(t, [][3]float64{{0.5, 0, 0}, {2.5, 0, 0}, {-2, 0, 0}})
	res, err := Residuals(a, b, "x")
	if err != nil {
		t.Fatalf("residuals: %v", err)
	}
	want := []float64{0.5, 0, -1}
	for i := range want {
		if math.Abs(res[i]-want[i]) > 1e-15 {
			t.Fatalf("res[%d] = %v, want %v", i, res[i], want[i])
		}
	}
	if _, err := Residuals(a, b, "phi"); err == nil {
		t.Fatalf("expected error for unknown variable")
	}
}
