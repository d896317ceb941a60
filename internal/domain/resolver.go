package domain

// CityResolver assigns one station identifier per city across all files of a
// run. Create one per run; it is not safe for concurrent use.
type CityResolver struct {
	idByName      map[string]string
	substitutions int
}

// NewCityResolver returns an empty resolver.
func NewCityResolver() *CityResolver {
	return &CityResolver{idByName: make(map[string]string)}
}

// Resolve returns the canonical identifier for id. The first identifier seen
// for a city and state wins; later identifiers for the same name are replaced.
func (r *CityResolver) Resolve(id Identity) string {
	key := id.City + id.State
	if canonical, ok := r.idByName[key]; ok {
		if canonical != id.RawID {
			r.substitutions++
		}
		return canonical
	}
	r.idByName[key] = id.RawID
	return id.RawID
}

// Lookup returns the identifier registered for a city and state.
func (r *CityResolver) Lookup(city, state string) (string, bool) {
	id, ok := r.idByName[city+state]
	return id, ok
}

// Len returns the number of distinct cities seen.
func (r *CityResolver) Len() int { return len(r.idByName) }

// Substitutions returns how many rows had their identifier replaced.
func (r *CityResolver) Substitutions() int { return r.substitutions }
