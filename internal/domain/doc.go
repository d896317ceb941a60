// Package domain models NOAA comparative climatic data as named datasets of
// per-city monthly values.
//
// # Data Source
//
// Input files come from the NOAA National Centers for Environmental Information
// "Comparative Climatic Data" tables and the 1981-2010 climate normals. Each
// file covers one metric (relative humidity, cloudiness, wind speed, normals
// temperature, ...) with one row per weather station.
//
// # File Conventions
//
// Rows are fixed-width. Every row starts with the station identity:
//
//	columns 0-4    5-character station identifier, e.g. "13959"
//	column  5      "," in comma-delimited normals files only
//	next 32        station name, e.g. "JOHN F KENNEDY, NY" or "BOSTON          MA"
//
// When the name field has no comma, the state code is padded directly against
// the right edge of the field and the last two characters are the state.
//
// Per-format layouts after the identity (widths in bytes):
//
//	Standard:   13 date range | 12 x 6 monthly | 6 annual
//	MaxWind:    13 date range | 13 x (4 direction, 4 speed)
//	Cloudiness: 3 year count  | 12 x (3 clear, 3 partly cloudy, 3 cloudy) | 3 x 3 annual
//	Humidity:   13 date range | 24 x 4 alternating morning/afternoon | 4 + 4 annual
//	Normals:    4 year        | comma list (last field annual) or 12 x 7 monthly | 6 annual
//
// Missing readings:
//
//	"*" is the NOAA sentinel for a missing reading. Standard and MaxWind files
//	map it to 0. Other numeric formats leave unparseable fields as [KindMissing],
//	which serializes as JSON null.
//
// # Value Kinds
//
// Values are numeric for Standard, MaxWind, Cloudiness and comma-delimited
// Normals datasets. Humidity and fixed-width Normals datasets keep the trimmed
// source text. Consumers may rely on one kind per dataset name.
//
// # Station Identity
//
// The same physical city can appear under different station identifiers in
// different files. A [CityResolver] keyed by cleaned city name plus state maps
// every later occurrence onto the first identifier seen in the run, so the
// identifier works as a join key across datasets. The first file in the
// registry that mentions a city fixes its identifier.
package domain
