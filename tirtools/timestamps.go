package tirtools

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Acquisition pairs an ASTER scene file with the acquisition time parsed from
// its name.
type Acquisition struct {
	Time time.Time
	Path string
}

// AsterTimestamps walks root for files with the given extension (e.g. ".tif")
// and returns them sorted by acquisition time. ASTER granule names carry the
// acquisition time in the third underscore-delimited token, e.g.
// AST_08_00307052007181313_...: month/day/year/hour/minute/second at fixed
// offsets after a 3-character prefix. Files whose names don't follow the
// convention are skipped.
func AsterTimestamps(root string, ext string) ([]Acquisition, error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var acqs []Acquisition
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		ts, err := parseAcquisitionTime(filepath.Base(path))
		if err != nil {
			return nil
		}
		acqs = append(acqs, Acquisition{Time: ts, Path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(acqs, func(i, j int) bool { return acqs[i].Time.Before(acqs[j].Time) })
	return acqs, nil
}

func parseAcquisitionTime(name string) (time.Time, error) {
	tokens := strings.Split(name, "_")
	if len(tokens) < 3 || len(tokens[2]) < 17 {
		return time.Time{}, fmt.Errorf("filename %s does not follow the ASTER granule convention", name)
	}
	// The token is MMDDYYYYHHMMSS starting at offset 3.
	tok := tokens[2]
	stamp := tok[3:17]
	ts, err := time.ParseInLocation("01022006150405", stamp, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing acquisition time from %s: %w", name, err)
	}
	return ts, nil
}
