package pipeline

import "github.com/couchcryptid/climate-data-etl/internal/domain"

// DefaultRegistry returns the NOAA comparative climatic data files in output
// order. Order matters: the first file that mentions a city fixes its id.
func DefaultRegistry() []domain.Source {
	return []domain.Source{
		{Title: "Relative Humidity", FileName: "relhum18.dat.txt", Format: domain.FormatHumidity},
		{Title: "Cloudiness", FileName: "clpcdy15.txt", Format: domain.FormatCloudiness},
		{Title: "Wind Speed (Average)", FileName: "wndspd18.dat.txt", Format: domain.FormatStandard},
		{Title: "Wind Speed (Max)", FileName: "mxspd18.dat.txt", Format: domain.FormatMaxWind},
		{Title: "Sunshine (%)", FileName: "pctpos15.txt", Format: domain.FormatStandard},
		{Title: "Temperature (Average)", FileName: "nrmavg.txt", Format: domain.FormatNormals, HasCommas: true},
		{Title: "Temperature (Min)", FileName: "nrmmin.txt", Format: domain.FormatNormals, HasCommas: true},
		{Title: "Temperature (Max)", FileName: "nrmmax.txt", Format: domain.FormatNormals, HasCommas: true},
		{Title: "Heating Degree Days", FileName: "nrmhdd.txt", Format: domain.FormatNormals},
		{Title: "Cooling Degree Days", FileName: "nrmcdd.txt", Format: domain.FormatNormals},
		{Title: "Precipitation", FileName: "nrmpcp.txt", Format: domain.FormatNormals, HasCommas: true},
	}
}

// DatasetNames lists the dataset names sources produce, in output order.
func DatasetNames(sources []domain.Source) []string {
	var names []string
	for _, src := range sources {
		names = append(names, src.DatasetNames()...)
	}
	return names
}
