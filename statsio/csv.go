package statsio

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moorec52/aster/tirtools"
)

// StatsRow is one zonal-statistics measurement: one raster acquisition
// aggregated over one zone file.
type StatsRow struct {
	Time   time.Time
	Source string
	Band   int
	Stats  tirtools.Statistics
	Count  int
}

func WriteStatsToCSV(rows []StatsRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	if _, err := f.WriteString("time,source,band,mean_k,max_k,min_k,std_k,count\n"); err != nil {
		return err
	}

	for _, row := range rows {
		line := fmt.Sprintf("%s,%s,%d,%v,%v,%v,%v,%d\n",
			row.Time.UTC().Format(time.RFC3339), row.Source, row.Band,
			row.Stats.Mean, row.Stats.Max, row.Stats.Min, row.Stats.Std, row.Count)
		if _, err := f.WriteString(line); err != nil {
			return err
		}
	}
	if err = f.Sync(); err != nil {
		return err
	}
	return nil
}

func WriteTimestampsToCSV(acqs []tirtools.Acquisition, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	if _, err := f.WriteString("time,path\n"); err != nil {
		return err
	}

	for _, acq := range acqs {
		if _, err := f.WriteString(fmt.Sprintf("%s,%s\n", acq.Time.UTC().Format(time.RFC3339), acq.Path)); err != nil {
			return err
		}
	}
	if err = f.Sync(); err != nil {
		return err
	}
	return nil
}
