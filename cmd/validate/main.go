// Command validate checks an emitted climate dataset document against the
// contract its consumers rely on: unique dataset names, keys that match
// record ids, consistent month counts, one value kind per dataset and stable
// city identity across datasets.
//
// Usage:
//
//	go run ./cmd/validate -data data.json
//	go run ./cmd/validate -data data.json -registry
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/couchcryptid/climate-data-etl/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "", "path to the emitted dataset document")
	registry := flag.Bool("registry", false, "also require exactly the default registry's dataset names")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, *dataPath, *registry); code != 0 {
		os.Exit(code)
	}
}

func run(out io.Writer, dataPath string, checkRegistry bool) int {
	fmt.Fprintln(out, "=== Climate Dataset Validation ===")
	fmt.Fprintln(out)

	datasets, err := loadDocument(dataPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load document: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateNames(datasets),
		validateKeys(datasets),
		validateMonthCounts(datasets),
		validateValueKinds(datasets),
		validateIdentity(datasets),
	}
	if checkRegistry {
		phases = append(phases, validateRegistry(datasets, pipeline.DatasetNames(pipeline.DefaultRegistry())))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Datasets: %d, records: %d\n", len(datasets), countRecords(datasets))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func loadDocument(path string) ([]*domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var datasets []*domain.Dataset
	if err := json.Unmarshal(data, &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

func countRecords(datasets []*domain.Dataset) int {
	n := 0
	for _, ds := range datasets {
		n += ds.Len()
	}
	return n
}

// ── Phase 1: Dataset names ──

func validateNames(datasets []*domain.Dataset) *phase {
	p := &phase{name: "Phase 1: Dataset names"}
	seen := make(map[string]int, len(datasets))
	for i, ds := range datasets {
		if ds == nil {
			p.errorf("dataset %d: null", i)
			continue
		}
		if ds.Name == "" {
			p.errorf("dataset %d: empty name", i)
		}
		if first, ok := seen[ds.Name]; ok {
			p.errorf("dataset %d: name %q already used by dataset %d", i, ds.Name, first)
			continue
		}
		seen[ds.Name] = i
	}
	return p
}

// ── Phase 2: Record keys ──

func validateKeys(datasets []*domain.Dataset) *phase {
	p := &phase{name: "Phase 2: Record keys match ids"}
	for _, ds := range nonNil(datasets) {
		for _, key := range ds.IDs() {
			rec, _ := ds.Get(key)
			if rec.ID != key {
				p.errorf("%s: key %q holds record with id %q", ds.Name, key, rec.ID)
			}
		}
	}
	return p
}

// ── Phase 3: Month counts ──

func validateMonthCounts(datasets []*domain.Dataset) *phase {
	p := &phase{name: "Phase 3: Month counts"}
	for _, ds := range nonNil(datasets) {
		want := -1
		for _, rec := range ds.Records() {
			n := len(rec.ValueByMonth)
			if want < 0 {
				want = n
				continue
			}
			if n != want {
				p.errorf("%s: %s has %d months, expected %d", ds.Name, rec.ID, n, want)
			}
		}
	}
	return p
}

// ── Phase 4: Value kinds ──
// Missing values may appear anywhere; all others in a dataset share a kind.

func validateValueKinds(datasets []*domain.Dataset) *phase {
	p := &phase{name: "Phase 4: Value kinds"}
	for _, ds := range nonNil(datasets) {
		kind := domain.KindMissing
		check := func(id string, v domain.Value) {
			if v.Kind == domain.KindMissing {
				return
			}
			if kind == domain.KindMissing {
				kind = v.Kind
				return
			}
			if v.Kind != kind {
				p.errorf("%s: %s has %s value %q in a %s dataset", ds.Name, id, v.Kind, v.String(), kind)
			}
		}
		for _, rec := range ds.Records() {
			for _, v := range rec.ValueByMonth {
				check(rec.ID, v)
			}
			check(rec.ID, rec.AnnualValue)
		}
	}
	return p
}

// ── Phase 5: City identity ──

func validateIdentity(datasets []*domain.Dataset) *phase {
	p := &phase{name: "Phase 5: City identity across datasets"}
	type place struct{ city, state, dataset string }
	byID := make(map[string]place)
	for _, ds := range nonNil(datasets) {
		for _, rec := range ds.Records() {
			first, ok := byID[rec.ID]
			if !ok {
				byID[rec.ID] = place{city: rec.City, state: rec.State, dataset: ds.Name}
				continue
			}
			if first.city != rec.City || first.state != rec.State {
				p.errorf("%s: id %s is %s, %s but %s has %s, %s",
					ds.Name, rec.ID, rec.City, rec.State, first.dataset, first.city, first.state)
			}
		}
	}
	return p
}

// ── Phase 6: Registry coverage ──

func validateRegistry(datasets []*domain.Dataset, want []string) *phase {
	p := &phase{name: "Phase 6: Registry coverage"}
	got := make([]string, 0, len(datasets))
	for _, ds := range nonNil(datasets) {
		got = append(got, ds.Name)
	}
	if slices.Equal(got, want) {
		return p
	}
	for _, name := range want {
		if !slices.Contains(got, name) {
			p.errorf("missing dataset %q", name)
		}
	}
	for _, name := range got {
		if !slices.Contains(want, name) {
			p.errorf("unexpected dataset %q", name)
		}
	}
	if p.passed() {
		p.errorf("datasets out of order: got %v", got)
	}
	return p
}

func nonNil(datasets []*domain.Dataset) []*domain.Dataset {
	out := make([]*domain.Dataset, 0, len(datasets))
	for _, ds := range datasets {
		if ds != nil {
			out = append(out, ds)
		}
	}
	return out
}
