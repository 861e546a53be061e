// Package landmark extracts landmark records from the structured input file.
package landmark

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Record is one landmark parsed from the input file, carrying the
// coordinates that were recorded alongside it.
type Record struct {
	Name     string
	Location string
	Lat      float64
	Lon      float64
}

// linePattern matches lines like:
//
//	Lost Coast Trail (King Range, Humboldt/Mendocino) – (40.28918, -124.35588)
//
// The dash may be an en-dash or a hyphen. Anything after the closing
// parenthesis is ignored.
var linePattern = regexp.MustCompile(`^(.+?)\s+\((.+?)\)\s+[–-]\s+\(([+-]?\d+\.?\d*),\s*([+-]?\d+\.?\d*)\)`)

// Extract reads path and returns one Record per line matching the expected
// shape, in file order. Headers, blank lines, and other non-matching lines
// are skipped silently. An unreadable file is a fatal error.
func Extract(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "landmark: read %s", path)
	}

	var records []Record
	for _, line := range strings.Split(string(data), "\n") {
		m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		lat, latErr := strconv.ParseFloat(m[3], 64)
		lon, lonErr := strconv.ParseFloat(m[4], 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		records = append(records, Record{
			Name:     strings.TrimSpace(m[1]),
			Location: strings.TrimSpace(m[2]),
			Lat:      lat,
			Lon:      lon,
		})
	}

	return records, nil
}
