// Command genmock writes JSON fixtures shaped like the upstream APIs the
// agent consumes: the RocketLaunch.Live feed, the r/SpaceX archive, and
// OpenWeatherMap responses. Point a local stub server at the output directory
// to develop against stable data.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

func main() {
	outDir := flag.String("out", "testdata/mock", "output directory for fixture files")
	flag.Parse()

	if err := run(*outDir); err != nil {
		log.Fatal(err)
	}
}

func run(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	fixtures := map[string]any{
		"feed_next_5.json":       feedFixture(),
		"archive_past.json":      archiveFixture(),
		"archive_launchpad.json": launchpadFixture(),
		"weather_current.json":   weatherFixture(),
		"geocode_direct.json":    geocodeFixture(),
	}

	for name, v := range fixtures {
		path := filepath.Join(outDir, name)
		if err := writeJSON(path, v); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// feedFixture covers the date-format spread the feed actually produces: a
// full window timestamp, an estimate-only record, and a prose-only record.
func feedFixture() any {
	return map[string]any{
		"result": []map[string]any{
			{
				"name":      "Starlink 6-77",
				"provider":  map[string]any{"name": "SpaceX"},
				"win_open":  "2025-06-20T10:00Z",
				"t0":        nil,
				"sort_date": "1750413600",
				"quicktext": "Falcon 9 - Starlink 6-77 - Jun 20",
				"pad": map[string]any{
					"name":      "SLC-40",
					"latitude":  "28.56185",
					"longitude": "-80.57737",
					"location": map[string]any{
						"name":       "Cape Canaveral",
						"state_name": "Florida",
						"country":    "United States",
					},
				},
			},
			{
				"name":     "Ax-4",
				"provider": map[string]any{"name": "SpaceX"},
				"est_date": map[string]any{"year": 2025, "month": 6, "day": 19},
				"date_str": "Jun 19",
				"pad": map[string]any{
					"name":      "LC-39A",
					"latitude":  "",
					"longitude": "",
					"location": map[string]any{
						"name":       "Kennedy Space Center",
						"state_name": "Florida",
						"country":    "United States",
					},
				},
			},
			{
				"name":               "Electron Mission",
				"provider":           map[string]any{"name": "Rocket Lab"},
				"launch_description": "An Electron rocket is targeted for July 2, 2025 (UTC).",
				"pad": map[string]any{
					"name": "LC-1A",
					"location": map[string]any{
						"name":    "Mahia Peninsula",
						"country": "New Zealand",
					},
				},
			},
		},
	}
}

func archiveFixture() any {
	return []map[string]any{
		{
			"name":      "CRS-30",
			"date_utc":  "2024-03-21T20:55:00.000Z",
			"success":   true,
			"launchpad": "5e9e4501f509094ba4566f84",
		},
		{
			"name":      "CRS-32",
			"date_utc":  "2025-04-21T08:15:00.000Z",
			"success":   true,
			"details":   "Dragon resupply mission to the ISS.",
			"launchpad": "5e9e4501f509094ba4566f84",
		},
		{
			"name":     "Starship Test",
			"date_utc": "2025-05-01T00:00:00.000Z",
			"success":  false,
		},
	}
}

func launchpadFixture() any {
	return map[string]any{
		"name":      "CCSFS SLC 40",
		"full_name": "Cape Canaveral Space Force Station Space Launch Complex 40",
		"locality":  "Cape Canaveral",
		"region":    "Florida",
		"latitude":  28.5618571,
		"longitude": -80.577366,
	}
}

func weatherFixture() any {
	return map[string]any{
		"dt":      1750413600,
		"main":    map[string]any{"temp": 27.4, "feels_like": 29.1},
		"wind":    map[string]any{"speed": 6.2},
		"clouds":  map[string]any{"all": 40},
		"weather": []map[string]any{{"main": "Clouds", "description": "scattered clouds"}},
		"name":    "Cape Canaveral",
	}
}

func geocodeFixture() any {
	return []map[string]any{
		{"name": "Cape Canaveral", "lat": 28.3922, "lon": -80.6077, "country": "US", "state": "Florida"},
	}
}
