package domain

import (
	"regexp"
	"strings"
)

const (
	idWidth    = 5
	nameWidth  = 32
	stateWidth = 2
)

// wordStartRe matches the first character of every word, e.g. the "h" in
// "o'hare" or the "s" in "winston-salem".
var wordStartRe = regexp.MustCompile(`\b\w`)

// Identity is the station identity read from the start of a row.
type Identity struct {
	RawID string
	City  string
	State string
}

// ExtractIdentity reads the station id and name from r. hasCommas consumes
// the delimiter that comma-delimited normals files put after the id.
func ExtractIdentity(r *FieldReader, hasCommas bool) Identity {
	id := r.Eat(idWidth)
	if hasCommas {
		r.Eat(1)
	}
	name := strings.TrimSpace(r.Eat(nameWidth))

	city, state := splitCityState(name)
	return Identity{
		RawID: id,
		City:  titleCase(city),
		State: strings.TrimSpace(state),
	}
}

// splitCityState splits "CITY, ST" on the first comma. Without a comma the
// state code is the last two characters of the name.
func splitCityState(name string) (string, string) {
	if i := strings.IndexByte(name, ','); i >= 0 {
		return name[:i], name[i+1:]
	}
	if len(name) < stateWidth {
		return "", name
	}
	return name[:len(name)-stateWidth], name[len(name)-stateWidth:]
}

func titleCase(s string) string {
	return wordStartRe.ReplaceAllStringFunc(strings.ToLower(strings.TrimSpace(s)), strings.ToUpper)
}
