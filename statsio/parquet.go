package statsio

import (
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"
)

type statsParquetRow struct {
	Time   int64   `parquet:"time, type=INT64"`
	Source string  `parquet:"source, type=UTF8"`
	Band   int32   `parquet:"band, type=INT32"`
	MeanK  float64 `parquet:"mean_k, type=DOUBLE"`
	MaxK   float64 `parquet:"max_k, type=DOUBLE"`
	MinK   float64 `parquet:"min_k, type=DOUBLE"`
	StdK   float64 `parquet:"std_k, type=DOUBLE"`
	Count  int64   `parquet:"count, type=INT64"`
}

// WriteStatsToParquet writes the measurement rows with Snappy compression.
// Row counts here are one per acquisition, so everything is written in a
// single batch rather than streamed.
func WriteStatsToParquet(rows []StatsRow, path string) error {
	output, err := os.Create(path)
	if err != nil {
		return err
	}

	schema := parquet.SchemaOf(new(statsParquetRow))
	writer := parquet.NewGenericWriter[statsParquetRow](output, schema, parquet.Compression(&parquet.Snappy))
	defer func() {
		if err := output.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	buf := make([]statsParquetRow, 0, len(rows))
	for _, row := range rows {
		buf = append(buf, statsParquetRow{
			Time:   row.Time.UTC().Unix(),
			Source: row.Source,
			Band:   int32(row.Band),
			MeanK:  row.Stats.Mean,
			MaxK:   row.Stats.Max,
			MinK:   row.Stats.Min,
			StdK:   row.Stats.Std,
			Count:  int64(row.Count),
		})
	}
	if _, err := writer.Write(buf); err != nil {
		return err
	}
	return writer.Close()
}
