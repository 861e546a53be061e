package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ch4xm/landmark-cli/internal/landmark"
	"github.com/ch4xm/landmark-cli/pkg/geocode"
)

func sampleOutcomes() []Outcome {
	return []Outcome{
		{
			Landmark: landmark.Record{Name: "Lost Coast Trail", Location: "King Range, Humboldt/Mendocino", Lat: 40.28918, Lon: -124.35588},
			Place:    &geocode.Place{Lat: 40.2891834, Lon: -124.3558835, DisplayName: "Lost Coast Trail, Humboldt County, California, United States"},
		},
		{
			Landmark: landmark.Record{Name: "Golden Gate, Park", Location: "San Francisco", Lat: 37.76904, Lon: -122.48614},
			Place:    nil,
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleOutcomes())
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Geocoded)
	assert.Equal(t, 1, s.Failed)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
}

func TestWriteJSON_SuccessAndFailureShapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, sampleOutcomes()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)

	ok := entries[0]
	assert.Equal(t, "Lost Coast Trail", ok["name"])
	assert.Equal(t, "King Range, Humboldt/Mendocino", ok["location"])
	existing := ok["existing_coords"].(map[string]any)
	assert.InDelta(t, 40.28918, existing["lat"].(float64), 1e-9)
	newCoords := ok["new_coords"].(map[string]any)
	assert.InDelta(t, 40.2891834, newCoords["lat"].(float64), 1e-9)
	assert.InDelta(t, -124.3558835, newCoords["lon"].(float64), 1e-9)
	assert.Equal(t, "Lost Coast Trail, Humboldt County, California, United States", ok["display_name"])
	diff := ok["coord_difference"].(map[string]any)
	assert.InDelta(t, 0.0000034, diff["lat_diff"].(float64), 1e-7)
	assert.InDelta(t, 0.0000035, diff["lon_diff"].(float64), 1e-7)
	_, hasError := ok["error"]
	assert.False(t, hasError, "successful entries carry no error marker")

	failed := entries[1]
	assert.Nil(t, failed["new_coords"], "failed entries serialize an explicit null")
	assert.Nil(t, failed["display_name"])
	assert.Equal(t, "Geocoding failed", failed["error"])
	_, hasDiff := failed["coord_difference"]
	assert.False(t, hasDiff, "failed entries carry no coordinate difference")
}

func TestWriteJSON_EmptyOutcomes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteCSV_FallbackAndSanitization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, sampleOutcomes()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "name,lat,lon\n" +
		"Lost Coast Trail,40.2891834,-124.3558835\n" +
		"Golden Gate; Park,37.76904,-122.48614\n"
	assert.Equal(t, want, string(data))
}

func TestWriteCSV_HeaderOnlyForEmptyOutcomes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name,lat,lon\n", string(data))
}

func TestArtifacts_Idempotent(t *testing.T) {
	dir := t.TempDir()
	outcomes := sampleOutcomes()

	jsonA := filepath.Join(dir, "a.json")
	jsonB := filepath.Join(dir, "b.json")
	require.NoError(t, WriteJSON(jsonA, outcomes))
	require.NoError(t, WriteJSON(jsonB, outcomes))

	csvA := filepath.Join(dir, "a.csv")
	csvB := filepath.Join(dir, "b.csv")
	require.NoError(t, WriteCSV(csvA, outcomes))
	require.NoError(t, WriteCSV(csvB, outcomes))

	a, err := os.ReadFile(jsonA)
	require.NoError(t, err)
	b, err := os.ReadFile(jsonB)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	a, err = os.ReadFile(csvA)
	require.NoError(t, err)
	b, err = os.ReadFile(csvB)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
