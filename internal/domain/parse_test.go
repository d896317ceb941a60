package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testHeader   = "HEADER LINE ONE\nHEADER LINE TWO\n"
	testJFK      = "13959"
	testJFKAlias = "94789"
)

func numbers(vs ...float64) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Number(v)
	}
	return out
}

func texts(vs ...string) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Text(v)
	}
	return out
}

func repeat(v Value, n int) []Value {
	out := make([]Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// standardLine builds a Standard row with the given twelve monthly fields and
// annual field, each right-aligned in 6 columns.
func standardLine(id, name string, fields ...string) string {
	var b strings.Builder
	b.WriteString(col(id, 5))
	b.WriteString(col(name, 32))
	b.WriteString(col(" 1981-2010", 13))
	for _, f := range fields {
		b.WriteString(rcol(f, 6))
	}
	return b.String()
}

func parseOne(t *testing.T, src Source, contents string, resolver *CityResolver) ([]*Dataset, ParseStats) {
	t.Helper()
	if resolver == nil {
		resolver = NewCityResolver()
	}
	datasets, stats, err := Parse(src, contents, resolver)
	require.NoError(t, err)
	return datasets, stats
}

func TestParse_StandardEndToEnd(t *testing.T) {
	fields := strings.Split(strings.Repeat("70 ", 13), " ")[:13]
	line := standardLine(testJFK, "John F Kennedy   ,NY", fields...)
	src := Source{Title: "Sunshine (%)", FileName: "pctpos15.txt", Format: FormatStandard}

	datasets, stats := parseOne(t, src, testHeader+line+"\n", nil)

	require.Len(t, datasets, 1)
	assert.Equal(t, "Sunshine (%)", datasets[0].Name)
	rec, ok := datasets[0].Get(testJFK)
	require.True(t, ok)

	want := CityRecord{
		ID:           testJFK,
		City:         "John F Kennedy",
		State:        "NY",
		ValueByMonth: repeat(Number(70), 12),
		AnnualValue:  Number(70),
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, ParseStats{Lines: 1, BlankLines: 1, Records: 1}, stats)
}

func TestParse_StandardMissingReadingIsZero(t *testing.T) {
	line := standardLine(testJFK, "JOHN F KENNEDY, NY",
		"*", "8.4", " * ", "10", "-3.5", "", "x", "9", "9", "9", "9", "9", "*")
	src := Source{Title: "Wind Speed (Average)", FileName: "wndspd18.dat.txt", Format: FormatStandard}

	datasets, _ := parseOne(t, src, testHeader+line, nil)
	rec, ok := datasets[0].Get(testJFK)
	require.True(t, ok)

	want := []Value{
		Number(0), Number(8.4), Number(0), Number(10), Number(-3.5), Number(0),
		Missing(), Number(9), Number(9), Number(9), Number(9), Number(9),
	}
	assert.Equal(t, want, rec.ValueByMonth)
	assert.Equal(t, Number(0), rec.AnnualValue)
}

func TestParse_MaxWind(t *testing.T) {
	var b strings.Builder
	b.WriteString(col("14739", 5) + col("BOSTON, MA", 32) + col(" 1984-2018", 13))
	for i := range 12 {
		b.WriteString(col(" NW", 4))
		if i == 3 {
			b.WriteString(rcol("*", 4))
			continue
		}
		b.WriteString(rcol("40", 4))
	}
	b.WriteString(col(" W", 4) + rcol("58", 4))
	src := Source{Title: "Wind Speed (Max)", FileName: "mxspd18.dat.txt", Format: FormatMaxWind}

	datasets, _ := parseOne(t, src, testHeader+b.String(), nil)
	rec, ok := datasets[0].Get("14739")
	require.True(t, ok)

	want := repeat(Number(40), 12)
	want[3] = Number(0)
	assert.Equal(t, want, rec.ValueByMonth)
	assert.Equal(t, Number(58), rec.AnnualValue)
	assert.Equal(t, "Boston", rec.City)
}

func TestParse_Cloudiness(t *testing.T) {
	var b strings.Builder
	b.WriteString(col("13874", 5) + col("ATLANTA, GA", 32) + rcol("30", 3))
	for m := range 12 {
		b.WriteString(rcol("7", 3))
		b.WriteString(rcol("8", 3))
		if m == 11 {
			b.WriteString(rcol("*", 3))
			continue
		}
		b.WriteString(rcol("15", 3))
	}
	b.WriteString(rcol("99", 3) + rcol("105", 3) + rcol("161", 3))
	src := Source{Title: "Cloudiness", FileName: "clpcdy15.txt", Format: FormatCloudiness}

	datasets, stats := parseOne(t, src, testHeader+b.String()+"\n\n", nil)

	require.Len(t, datasets, 3)
	assert.Equal(t, "Cloudiness (Clear)", datasets[0].Name)
	assert.Equal(t, "Cloudiness (Partly Cloudy)", datasets[1].Name)
	assert.Equal(t, "Cloudiness (Cloudy)", datasets[2].Name)

	clearSky, _ := datasets[0].Get("13874")
	partly, _ := datasets[1].Get("13874")
	cloudy, _ := datasets[2].Get("13874")

	assert.Equal(t, repeat(Number(7), 12), clearSky.ValueByMonth)
	assert.Equal(t, repeat(Number(8), 12), partly.ValueByMonth)
	wantCloudy := repeat(Number(15), 12)
	wantCloudy[11] = Missing()
	assert.Equal(t, wantCloudy, cloudy.ValueByMonth, "cloudiness does not map * to 0")

	assert.Equal(t, Number(99), clearSky.AnnualValue)
	assert.Equal(t, Number(105), partly.AnnualValue)
	assert.Equal(t, Number(161), cloudy.AnnualValue)
	assert.Equal(t, "Atlanta", cloudy.City)
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 2, stats.BlankLines)
}

func TestParse_Humidity(t *testing.T) {
	var b strings.Builder
	b.WriteString(col("13959", 5) + col("JOHN F KENNEDY, NY", 32) + col(" 1981-2010", 13))
	for m := range 12 {
		b.WriteString(rcol("7"+string(rune('0'+m%10)), 4))
		b.WriteString(rcol("5"+string(rune('0'+m%10)), 4))
	}
	b.WriteString(rcol("75", 4) + rcol("56", 4))
	src := Source{Title: "Relative Humidity", FileName: "relhum18.dat.txt", Format: FormatHumidity}

	datasets, _ := parseOne(t, src, testHeader+b.String(), nil)

	require.Len(t, datasets, 2)
	assert.Equal(t, "Relative Humidity (Morning)", datasets[0].Name)
	assert.Equal(t, "Relative Humidity (Afternoon)", datasets[1].Name)

	am, ok := datasets[0].Get(testJFK)
	require.True(t, ok)
	pm, ok := datasets[1].Get(testJFK)
	require.True(t, ok)

	assert.Equal(t, texts("70", "71", "72", "73", "74", "75", "76", "77", "78", "79", "70", "71"), am.ValueByMonth)
	assert.Equal(t, texts("50", "51", "52", "53", "54", "55", "56", "57", "58", "59", "50", "51"), pm.ValueByMonth)
	assert.Equal(t, Text("75"), am.AnnualValue)
	assert.Equal(t, Text("56"), pm.AnnualValue)
	assert.Equal(t, am.ID, pm.ID)
}

func TestParse_NormalsWithCommas(t *testing.T) {
	header := "STATION,NAME,YEAR,JAN,FEB,MAR,APR,MAY,JUN,JUL,AUG,SEP,OCT,NOV,DEC,ANN\n"
	line := "94728," + col("NEW YORK C.PARK, NY", 32) + "1981" +
		"45.2, 48.1, 55.0, 61.3, 70.2, 78.9, 82.1, 80.4, 73.6, 62.8, 52.0, 46.5, 63.0"
	src := Source{Title: "Temperature (Max)", FileName: "nrmmax.txt", Format: FormatNormals, HasCommas: true}

	datasets, stats := parseOne(t, src, header+line+"\n", nil)
	rec, ok := datasets[0].Get("94728")
	require.True(t, ok)

	assert.Equal(t, numbers(45.2, 48.1, 55.0, 61.3, 70.2, 78.9, 82.1, 80.4, 73.6, 62.8, 52.0, 46.5), rec.ValueByMonth)
	assert.Equal(t, Number(63.0), rec.AnnualValue)
	assert.Equal(t, "New York C.Park", rec.City)
	assert.Equal(t, 0, stats.RaggedRows)
}

func TestParse_NormalsFieldCount(t *testing.T) {
	tests := []struct {
		name       string
		tail       string
		wantMonths int
		wantAnnual Value
		ragged     int
	}{
		{"well formed", "1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 6.5", 12, Number(6.5), 0},
		{"leading delimiter after year", ", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 6.5", 12, Number(6.5), 0},
		{"short row", "1.5, 2.5, 3.5, 2.5", 3, Number(2.5), 1},
		{"annual only", "7.25", 0, Number(7.25), 1},
		{"empty tail", "", 0, Number(0), 1},
		{"unparseable annual", "1, 2, -9999S", 2, Missing(), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := "00001," + col("ALBANY, NY", 32) + "2010" + tt.tail
			src := Source{Title: "Precipitation", FileName: "nrmpcp.txt", Format: FormatNormals, HasCommas: true}

			datasets, stats := parseOne(t, src, "header\n"+line, nil)
			rec, ok := datasets[0].Get("00001")
			require.True(t, ok)

			assert.Len(t, rec.ValueByMonth, tt.wantMonths)
			assert.Equal(t, len(commaFields(tt.tail)), len(rec.ValueByMonth)+1)
			assert.Equal(t, tt.wantAnnual, rec.AnnualValue)
			assert.Equal(t, tt.ragged, stats.RaggedRows)
		})
	}
}

func TestParse_NormalsFixedWidthKeepsText(t *testing.T) {
	var b strings.Builder
	b.WriteString(col("14739", 5) + col("BOSTON, MA", 32) + "1981")
	for range 12 {
		b.WriteString(rcol("1234", 7))
	}
	b.WriteString(rcol("5611", 6))
	src := Source{Title: "Heating Degree Days", FileName: "nrmhdd.txt", Format: FormatNormals}

	datasets, _ := parseOne(t, src, "header\n"+b.String(), nil)
	rec, ok := datasets[0].Get("14739")
	require.True(t, ok)

	assert.Equal(t, repeat(Text("1234"), 12), rec.ValueByMonth)
	assert.Equal(t, Text("5611"), rec.AnnualValue)
}

func TestParse_NormalsMissingReadingIsNotZero(t *testing.T) {
	// "*" only maps to 0 for Standard and MaxWind files.
	line := "00001," + col("ALBANY, NY", 32) + "2010" + "*, 2, 3"
	src := Source{Title: "Precipitation", FileName: "nrmpcp.txt", Format: FormatNormals, HasCommas: true}

	datasets, _ := parseOne(t, src, "header\n"+line, nil)
	rec, _ := datasets[0].Get("00001")

	assert.Equal(t, []Value{Missing(), Number(2)}, rec.ValueByMonth)
}

func TestParse_SkipsHeadersBlankLinesAndCarriageReturns(t *testing.T) {
	row := func(id, name string) string {
		return standardLine(id, name, "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "78")
	}
	contents := "HEADER\r\nSUBHEADER\r\n" +
		row("00001", "ALBANY, NY") + "\r\n" +
		"   \r\n" +
		row("00002", "BOSTON, MA") + "\r\n"
	src := Source{Title: "Sunshine (%)", FileName: "pctpos15.txt", Format: FormatStandard}

	datasets, stats := parseOne(t, src, contents, nil)

	assert.Equal(t, []string{"00001", "00002"}, datasets[0].IDs())
	rec, _ := datasets[0].Get("00002")
	assert.Equal(t, Number(78), rec.AnnualValue)
	assert.Equal(t, ParseStats{Lines: 2, BlankLines: 2, Records: 2}, stats)
}

func TestParse_HeaderOnlyFile(t *testing.T) {
	src := Source{Title: "Sunshine (%)", FileName: "pctpos15.txt", Format: FormatStandard}

	datasets, stats := parseOne(t, src, "HEADER", nil)

	require.Len(t, datasets, 1)
	assert.Equal(t, 0, datasets[0].Len())
	assert.Equal(t, ParseStats{}, stats)
}

func TestParse_ShortRowDegradesWithoutError(t *testing.T) {
	src := Source{Title: "Sunshine (%)", FileName: "pctpos15.txt", Format: FormatStandard}

	datasets, _ := parseOne(t, src, testHeader+"00001"+col("ALBANY, NY", 32), nil)
	rec, ok := datasets[0].Get("00001")
	require.True(t, ok)

	assert.Equal(t, repeat(Number(0), 12), rec.ValueByMonth)
	assert.Equal(t, Number(0), rec.AnnualValue)
}

func TestParse_UnknownFormat(t *testing.T) {
	_, _, err := Parse(Source{Title: "x", FileName: "x.txt", Format: Format(42)}, "", NewCityResolver())

	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Contains(t, err.Error(), "x.txt")
}

func TestParse_ResolvesIdentityAcrossFiles(t *testing.T) {
	humidity := Source{Title: "Relative Humidity", FileName: "relhum18.dat.txt", Format: FormatHumidity}
	sunshine := Source{Title: "Sunshine (%)", FileName: "pctpos15.txt", Format: FormatStandard}

	humidityRow := col(testJFK, 5) + col("JOHN F KENNEDY, NY", 32)
	sunshineRow := standardLine(testJFKAlias, "John F. Kennedy", "1") // different name: no match
	sunshineSame := standardLine(testJFKAlias, "JOHN F KENNEDY ,NY", "1")

	resolver := NewCityResolver()
	_, _ = parseOne(t, humidity, testHeader+humidityRow, resolver)
	datasets, stats := parseOne(t, sunshine, testHeader+sunshineRow+"\n"+sunshineSame, resolver)

	assert.Equal(t, []string{testJFKAlias, testJFK}, datasets[0].IDs())
	assert.Equal(t, 1, stats.Substituted)
}

func TestParse_IdentityIsIdempotentButOrderDependent(t *testing.T) {
	first := Source{Title: "A", FileName: "a.txt", Format: FormatStandard}
	second := Source{Title: "B", FileName: "b.txt", Format: FormatStandard}
	contents := map[string]string{
		"a.txt": testHeader + standardLine("11111", "SPRINGFIELD, IL", "1"),
		"b.txt": testHeader + standardLine("22222", "SPRINGFIELD, IL", "2"),
	}

	run := func(order ...Source) map[string][]string {
		resolver := NewCityResolver()
		ids := make(map[string][]string)
		for _, src := range order {
			datasets, _ := parseOne(t, src, contents[src.FileName], resolver)
			ids[src.Title] = datasets[0].IDs()
		}
		return ids
	}

	forward := run(first, second)
	assert.Equal(t, forward, run(first, second), "same order yields same ids")
	assert.Equal(t, []string{"11111"}, forward["B"])

	// The registry order decides which raw id becomes canonical.
	reversed := run(second, first)
	assert.Equal(t, []string{"22222"}, reversed["A"])
}

func TestParse_DuplicateCityInFileKeepsFirstPosition(t *testing.T) {
	src := Source{Title: "Sunshine (%)", FileName: "pctpos15.txt", Format: FormatStandard}
	contents := testHeader +
		standardLine("00001", "ALBANY, NY", "1") + "\n" +
		standardLine("00002", "BOSTON, MA", "2") + "\n" +
		standardLine("00003", "ALBANY, NY", "3")

	datasets, stats := parseOne(t, src, contents, nil)

	assert.Equal(t, []string{"00001", "00002"}, datasets[0].IDs())
	rec, _ := datasets[0].Get("00001")
	assert.Equal(t, Number(3), rec.ValueByMonth[0])
	assert.Equal(t, 1, stats.Substituted)
}
