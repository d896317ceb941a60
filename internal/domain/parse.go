package domain

import (
	"strconv"
	"strings"
)

const (
	monthsPerYear = 12

	// missingReading marks a reading NOAA did not record.
	missingReading = "*"

	dateRangeWidth    = 13
	standardWidth     = 6
	windDirWidth      = 4
	windSpeedWidth    = 4
	cloudYearsWidth   = 3
	cloudWidth        = 3
	humidityWidth     = 4
	normalsYearWidth  = 4
	normalsMonthWidth = 7
	normalsAnnWidth   = 6
)

var (
	cloudinessSuffixes = []string{"Clear", "Partly Cloudy", "Cloudy"}
	humiditySuffixes   = []string{"Morning", "Afternoon"}
)

// ParseStats counts what a parser saw in one file.
type ParseStats struct {
	Lines       int // data lines after the header
	BlankLines  int
	Records     int
	RaggedRows  int // comma normals rows with a month count other than 12
	Substituted int // rows whose id was replaced by the resolver
}

// Parse turns the contents of one source file into datasets. Malformed rows
// never fail the parse: short fields become empty and unparseable numbers
// become zero or Missing depending on the format. Errors come only from an
// invalid source.
func Parse(src Source, contents string, resolver *CityResolver) ([]*Dataset, ParseStats, error) {
	if err := src.Validate(); err != nil {
		return nil, ParseStats{}, err
	}

	var stats ParseStats
	lines := dataLines(contents, src.Format.HeaderLines(), &stats)
	before := resolver.Substitutions()

	var datasets []*Dataset
	switch src.Format {
	case FormatStandard:
		datasets = parseStandard(src, lines, resolver, &stats)
	case FormatMaxWind:
		datasets = parseMaxWind(src, lines, resolver, &stats)
	case FormatCloudiness:
		datasets = parseCloudiness(src, lines, resolver, &stats)
	case FormatHumidity:
		datasets = parseHumidity(src, lines, resolver, &stats)
	case FormatNormals:
		datasets = parseNormals(src, lines, resolver, &stats)
	}

	stats.Substituted = resolver.Substitutions() - before
	return datasets, stats, nil
}

// dataLines drops the header and blank lines and strips carriage returns.
func dataLines(contents string, headerLines int, stats *ParseStats) []string {
	all := strings.Split(contents, "\n")
	if len(all) <= headerLines {
		return nil
	}

	out := make([]string, 0, len(all)-headerLines)
	for _, line := range all[headerLines:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			stats.BlankLines++
			continue
		}
		stats.Lines++
		out = append(out, line)
	}
	return out
}

// newRecord reads the row identity and resolves its canonical id.
func newRecord(r *FieldReader, hasCommas bool, resolver *CityResolver) CityRecord {
	id := ExtractIdentity(r, hasCommas)
	return CityRecord{
		ID:           resolver.Resolve(id),
		City:         id.City,
		State:        id.State,
		ValueByMonth: make([]Value, 0, monthsPerYear),
	}
}

// withEmptyMonths returns a copy of rec that does not share its month slice.
func (rec CityRecord) withEmptyMonths() CityRecord {
	rec.ValueByMonth = make([]Value, 0, monthsPerYear)
	return rec
}

func subDatasets(src Source) []*Dataset {
	names := src.DatasetNames()
	out := make([]*Dataset, len(names))
	for i, name := range names {
		out[i] = NewDataset(name)
	}
	return out
}

func parseStandard(src Source, lines []string, resolver *CityResolver, stats *ParseStats) []*Dataset {
	ds := NewDataset(src.Title)
	for _, line := range lines {
		r := NewFieldReader(line)
		rec := newRecord(r, src.HasCommas, resolver)
		r.Eat(dateRangeWidth)
		for range monthsPerYear {
			rec.ValueByMonth = append(rec.ValueByMonth, parseReading(r.Eat(standardWidth)))
		}
		rec.AnnualValue = parseReading(r.Eat(standardWidth))
		ds.Put(rec)
		stats.Records++
	}
	return []*Dataset{ds}
}

// parseMaxWind reads direction/speed pairs for each month and the annual
// column. Directions are discarded.
func parseMaxWind(src Source, lines []string, resolver *CityResolver, stats *ParseStats) []*Dataset {
	ds := NewDataset(src.Title)
	for _, line := range lines {
		r := NewFieldReader(line)
		rec := newRecord(r, src.HasCommas, resolver)
		r.Eat(dateRangeWidth)
		for range monthsPerYear {
			r.Eat(windDirWidth)
			rec.ValueByMonth = append(rec.ValueByMonth, parseReading(r.Eat(windSpeedWidth)))
		}
		r.Eat(windDirWidth)
		rec.AnnualValue = parseReading(r.Eat(windSpeedWidth))
		ds.Put(rec)
		stats.Records++
	}
	return []*Dataset{ds}
}

// parseCloudiness reads clear, partly cloudy and cloudy day counts in
// round-robin order for each month and then for the annual column.
func parseCloudiness(src Source, lines []string, resolver *CityResolver, stats *ParseStats) []*Dataset {
	sets := subDatasets(src)
	for _, line := range lines {
		r := NewFieldReader(line)
		base := newRecord(r, src.HasCommas, resolver)
		r.Eat(cloudYearsWidth)

		recs := make([]CityRecord, len(sets))
		for i := range recs {
			recs[i] = base.withEmptyMonths()
		}
		for range monthsPerYear {
			for i := range recs {
				recs[i].ValueByMonth = append(recs[i].ValueByMonth, parseNumber(r.Eat(cloudWidth)))
			}
		}
		for i := range recs {
			recs[i].AnnualValue = parseNumber(r.Eat(cloudWidth))
			sets[i].Put(recs[i])
		}
		stats.Records++
	}
	return sets
}

// parseHumidity splits 24 interleaved columns into morning (even) and
// afternoon (odd) readings. Values stay as trimmed text.
func parseHumidity(src Source, lines []string, resolver *CityResolver, stats *ParseStats) []*Dataset {
	sets := subDatasets(src)
	morning, afternoon := sets[0], sets[1]
	for _, line := range lines {
		r := NewFieldReader(line)
		base := newRecord(r, src.HasCommas, resolver)
		r.Eat(dateRangeWidth)

		am, pm := base.withEmptyMonths(), base.withEmptyMonths()
		for i := range 2 * monthsPerYear {
			v := Text(strings.TrimSpace(r.Eat(humidityWidth)))
			if i%2 == 0 {
				am.ValueByMonth = append(am.ValueByMonth, v)
			} else {
				pm.ValueByMonth = append(pm.ValueByMonth, v)
			}
		}
		am.AnnualValue = Text(strings.TrimSpace(r.Eat(humidityWidth)))
		pm.AnnualValue = Text(strings.TrimSpace(r.Eat(humidityWidth)))

		morning.Put(am)
		afternoon.Put(pm)
		stats.Records++
	}
	return sets
}

// parseNormals handles both normals layouts. Comma-delimited rows carry any
// number of numeric fields with the annual value last; fixed-width rows carry
// twelve months and an annual value kept as text.
func parseNormals(src Source, lines []string, resolver *CityResolver, stats *ParseStats) []*Dataset {
	ds := NewDataset(src.Title)
	for _, line := range lines {
		r := NewFieldReader(line)
		rec := newRecord(r, src.HasCommas, resolver)
		r.Eat(normalsYearWidth)

		if src.HasCommas {
			fields := commaFields(r.Rest())
			last := len(fields) - 1
			for _, f := range fields[:last] {
				rec.ValueByMonth = append(rec.ValueByMonth, parseNumber(f))
			}
			rec.AnnualValue = parseNumber(fields[last])
			if len(rec.ValueByMonth) != monthsPerYear {
				stats.RaggedRows++
			}
		} else {
			for range monthsPerYear {
				rec.ValueByMonth = append(rec.ValueByMonth, Text(strings.TrimSpace(r.Eat(normalsMonthWidth))))
			}
			rec.AnnualValue = Text(strings.TrimSpace(r.Eat(normalsAnnWidth)))
		}

		ds.Put(rec)
		stats.Records++
	}
	return []*Dataset{ds}
}

// commaFields splits the tail of a comma normals row. The delimiter right
// after the year is dropped. The result always has at least one field.
func commaFields(rest string) []string {
	rest = strings.TrimLeft(rest, " ")
	rest = strings.TrimPrefix(rest, ",")
	return strings.Split(rest, ",")
}

// parseReading parses a Standard or MaxWind value, mapping "*" to 0.
func parseReading(field string) Value {
	if strings.TrimSpace(field) == missingReading {
		return Number(0)
	}
	return parseNumber(field)
}

// parseNumber parses a trimmed numeric field. An empty field is 0; anything
// else that does not parse is Missing.
func parseNumber(field string) Value {
	s := strings.TrimSpace(field)
	if s == "" {
		return Number(0)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing()
	}
	return Number(v)
}
