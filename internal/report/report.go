// Package report aggregates per-landmark outcomes into the JSON and CSV
// artifacts and the console summary.
package report

import (
	"encoding/json"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ch4xm/landmark-cli/internal/landmark"
	"github.com/ch4xm/landmark-cli/pkg/geocode"
)

// Outcome pairs a landmark with its optional geocoding result. Place is nil
// when geocoding failed or produced no candidates.
type Outcome struct {
	Landmark landmark.Record
	Place    *geocode.Place
}

// Summary counts resolve outcomes.
type Summary struct {
	Total    int
	Geocoded int
	Failed   int
}

// Summarize tallies outcomes for the console summary block.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Place != nil {
			s.Geocoded++
		} else {
			s.Failed++
		}
	}
	return s
}

type coordPair struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type coordDiff struct {
	LatDiff float64 `json:"lat_diff"`
	LonDiff float64 `json:"lon_diff"`
}

// jsonRecord is the JSON artifact entry for one landmark. NewCoords and
// DisplayName serialize as explicit nulls on failure; CoordDifference and
// Error are mutually exclusive.
type jsonRecord struct {
	Name            string     `json:"name"`
	Location        string     `json:"location"`
	ExistingCoords  coordPair  `json:"existing_coords"`
	NewCoords       *coordPair `json:"new_coords"`
	DisplayName     *string    `json:"display_name"`
	CoordDifference *coordDiff `json:"coord_difference,omitempty"`
	Error           string     `json:"error,omitempty"`
}

// WriteJSON writes the full per-landmark report to path. Output is
// deterministic: identical outcomes produce byte-identical files.
func WriteJSON(path string, outcomes []Outcome) error {
	records := make([]jsonRecord, 0, len(outcomes))
	for _, o := range outcomes {
		rec := jsonRecord{
			Name:           o.Landmark.Name,
			Location:       o.Landmark.Location,
			ExistingCoords: coordPair{Lat: o.Landmark.Lat, Lon: o.Landmark.Lon},
		}
		if o.Place != nil {
			rec.NewCoords = &coordPair{Lat: o.Place.Lat, Lon: o.Place.Lon}
			displayName := o.Place.DisplayName
			rec.DisplayName = &displayName
			rec.CoordDifference = &coordDiff{
				LatDiff: math.Abs(o.Place.Lat - o.Landmark.Lat),
				LonDiff: math.Abs(o.Place.Lon - o.Landmark.Lon),
			}
		} else {
			rec.Error = "Geocoding failed"
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal json")
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}

// WriteCSV writes the name,lat,lon summary to path. New coordinates are
// preferred; landmarks that failed to geocode keep their recorded ones.
// Commas in names become semicolons so the three-column shape survives
// without quoting.
func WriteCSV(path string, outcomes []Outcome) error {
	var b strings.Builder
	b.WriteString("name,lat,lon\n")
	for _, o := range outcomes {
		lat, lon := o.Landmark.Lat, o.Landmark.Lon
		if o.Place != nil {
			lat, lon = o.Place.Lat, o.Place.Lon
		}
		b.WriteString(strings.ReplaceAll(o.Landmark.Name, ",", ";"))
		b.WriteByte(',')
		b.WriteString(formatCoord(lat))
		b.WriteByte(',')
		b.WriteString(formatCoord(lon))
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}

// formatCoord renders a coordinate with the shortest decimal representation
// that round-trips.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
