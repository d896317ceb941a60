// Command genmock writes mock NOAA comparative climatic data files for every
// registered source and the dataset document the pipeline produces from them.
// It uses the real parser so the fixture always matches pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out-dir data/mock/noaa \
//	  -json-out data/mock/climate_datasets.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	fileadapter "github.com/couchcryptid/climate-data-etl/internal/adapter/file"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/observability"
	"github.com/couchcryptid/climate-data-etl/internal/pipeline"
)

// station is one mock city. When alias is set, the humidity file lists the
// city under it, which is how NOAA files disagree on ids.
type station struct {
	id    string
	alias string
	name  string
	base  float64
}

var stations = []station{
	{id: "14739", name: "BOSTON, MA", base: 28},
	{id: "94789", alias: "13959", name: "JOHN F KENNEDY, NY", base: 32},
	{id: "23174", name: "LOS ANGELES, CA", base: 57},
	{id: "12839", name: "MIAMI, FL", base: 68},
	{id: "94846", name: "CHICAGO O'HARE, IL", base: 24},
	{id: "24233", name: "SEATTLE C.O., WA", base: 41},
	{id: "21504", name: "HILO HI", base: 71},
}

var windDirections = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory to write mock NOAA source files into")
	jsonOut := flag.String("json-out", "", "output path for the dataset document fixture")
	flag.Parse()

	if *outDir == "" || *jsonOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out-dir, -json-out")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	registry := pipeline.DefaultRegistry()
	for _, src := range registry {
		path := filepath.Join(*outDir, src.FileName)
		if err := os.WriteFile(path, []byte(renderSource(src, stations)), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", src.FileName, err)
		}
		log.Printf("%s: %d rows (%s)", src.FileName, len(stations), src.Format)
	}

	if err := os.MkdirAll(filepath.Dir(*jsonOut), 0o755); err != nil {
		return err
	}
	writer := fileadapter.NewWriter(*jsonOut, slog.Default())
	p := pipeline.New(fileadapter.NewSourceDir(*outDir), writer, slog.Default(), observability.NewMetricsForTesting(), nil)

	ctx := context.Background()
	datasets, err := p.Assemble(ctx, registry)
	if err != nil {
		return fmt.Errorf("assembling fixture: %w", err)
	}
	if err := writer.Load(ctx, datasets); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote dataset fixture: %s", *jsonOut)

	printStats(datasets)
	return nil
}

// renderSource lays out one mock file in the source's format, header included.
func renderSource(src domain.Source, rows []station) string {
	var b strings.Builder
	for range src.Format.HeaderLines() {
		b.WriteString(strings.ToUpper(src.Title) + "\n")
	}
	for i, st := range rows {
		b.WriteString(renderRow(src, st, i))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderRow(src domain.Source, st station, row int) string {
	var b strings.Builder
	id := st.id
	if src.Format == domain.FormatHumidity && st.alias != "" {
		id = st.alias
	}
	b.WriteString(fmt.Sprintf("%-5s", id))
	if src.HasCommas {
		b.WriteByte(',')
	}
	b.WriteString(fmt.Sprintf("%-32s", st.name))

	switch src.Format {
	case domain.FormatStandard:
		b.WriteString(fmt.Sprintf("%-13s", " 1981-2010"))
		for m := range 13 {
			v := fmt.Sprintf("%.1f", monthly(st, m)/8)
			if row == 2 && m == 6 {
				v = "*"
			}
			b.WriteString(fmt.Sprintf("%6s", v))
		}
	case domain.FormatMaxWind:
		b.WriteString(fmt.Sprintf("%-13s", " 1984-2018"))
		for m := range 13 {
			dir := windDirections[(row+m)%len(windDirections)]
			b.WriteString(fmt.Sprintf(" %-3s%4d", dir, 40+int(st.base)%20+m))
		}
	case domain.FormatCloudiness:
		b.WriteString(fmt.Sprintf("%3d", 30))
		for m := range 12 {
			clearDays := 5 + (row+m)%6
			partly := 8 + m%4
			b.WriteString(fmt.Sprintf("%3d%3d%3d", clearDays, partly, 30-clearDays-partly))
		}
		b.WriteString(fmt.Sprintf("%3d%3d%3d", 98, 112, 155))
	case domain.FormatHumidity:
		b.WriteString(fmt.Sprintf("%-13s", " 1961-1990"))
		for m := range 13 {
			am := 70 + (row+m)%12
			b.WriteString(fmt.Sprintf("%4d%4d", am, am-18))
		}
	case domain.FormatNormals:
		b.WriteString("1981")
		if src.HasCommas {
			vals := make([]string, 13)
			for m := range vals {
				vals[m] = strconv.FormatFloat(monthly(st, m), 'f', 1, 64)
			}
			b.WriteString("," + strings.Join(vals, ","))
		} else {
			total := 0
			for m := range 12 {
				dd := int(max(0, 65-monthly(st, m))) * 30
				total += dd
				b.WriteString(fmt.Sprintf("%7d", dd))
			}
			b.WriteString(fmt.Sprintf("%6d", total))
		}
	}
	return b.String()
}

// monthly is a smooth seasonal curve around the station's base value. Index
// 12 is the annual mean.
func monthly(st station, m int) float64 {
	if m >= 12 {
		return st.base + 11
	}
	season := []float64{0, 2, 8, 16, 26, 34, 38, 36, 29, 19, 10, 3}
	return st.base + season[m]
}

func printStats(datasets []*domain.Dataset) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Datasets: %d\n", len(datasets))

	ids := map[string]bool{}
	for _, ds := range datasets {
		fmt.Printf("  %-32s %d cities\n", ds.Name, ds.Len())
		for _, id := range ds.IDs() {
			ids[id] = true
		}
	}
	fmt.Printf("Distinct city ids: %d\n", len(ids))

	for _, st := range stations {
		if st.alias != "" {
			fmt.Printf("Alias: %s is keyed by %s in every dataset\n", st.name, st.alias)
		}
	}
}
