package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned when a source names a format with no parser.
var ErrUnknownFormat = errors.New("unknown source format")

// Format selects the parser for a source file.
type Format int

const (
	FormatStandard Format = iota + 1
	FormatMaxWind
	FormatCloudiness
	FormatHumidity
	FormatNormals
)

func (f Format) String() string {
	switch f {
	case FormatStandard:
		return "standard"
	case FormatMaxWind:
		return "max_wind"
	case FormatCloudiness:
		return "cloudiness"
	case FormatHumidity:
		return "humidity"
	case FormatNormals:
		return "normals"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// HeaderLines is the number of header lines at the top of a file.
func (f Format) HeaderLines() int {
	if f == FormatNormals {
		return 1
	}
	return 2
}

// Source describes one input file.
type Source struct {
	Title     string
	FileName  string
	Format    Format
	HasCommas bool // normals only: comma after the id and between values
}

// Validate reports whether the source can be parsed.
func (s Source) Validate() error {
	switch s.Format {
	case FormatStandard, FormatMaxWind, FormatCloudiness, FormatHumidity, FormatNormals:
	default:
		return fmt.Errorf("source %q: %w: %s", s.FileName, ErrUnknownFormat, s.Format)
	}
	if s.Title == "" {
		return fmt.Errorf("source %q: title is required", s.FileName)
	}
	if s.FileName == "" {
		return fmt.Errorf("source %q: file name is required", s.Title)
	}
	return nil
}

// DatasetNames returns the names of the datasets the source produces, in
// output order.
func (s Source) DatasetNames() []string {
	switch s.Format {
	case FormatCloudiness:
		return suffixed(s.Title, cloudinessSuffixes)
	case FormatHumidity:
		return suffixed(s.Title, humiditySuffixes)
	default:
		return []string{s.Title}
	}
}

func suffixed(title string, suffixes []string) []string {
	out := make([]string, len(suffixes))
	for i, s := range suffixes {
		out[i] = title + " (" + s + ")"
	}
	return out
}
