package statsio

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func TestWriteStatsToParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.parquet")
	rows := sampleRows()
	if err := WriteStatsToParquet(rows, path); err != nil {
		t.Fatal(err)
	}

	got, err := parquet.ReadFile[statsParquetRow](path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}
	for i, row := range got {
		if row.Source != rows[i].Source {
			t.Errorf("row %d: got source %s, want %s", i, row.Source, rows[i].Source)
		}
		if row.MeanK != rows[i].Stats.Mean {
			t.Errorf("row %d: got mean %v, want %v", i, row.MeanK, rows[i].Stats.Mean)
		}
		if row.Time != rows[i].Time.Unix() {
			t.Errorf("row %d: got time %d, want %d", i, row.Time, rows[i].Time.Unix())
		}
	}
}
