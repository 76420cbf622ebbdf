package list

import "github.com/YoshitsuguKoike/stagelist/internal/domain/service/textnorm"

// Registry is the append-only set of action keys ever issued into a stage.
// Entries are comparison keys (textnorm.Key), kept in issue order.
type Registry []string

// Has reports whether text has already been issued.
func (r Registry) Has(text string) bool {
	return r.contains(textnorm.Key(text))
}

func (r Registry) contains(key string) bool {
	for _, k := range r {
		if k == key {
			return true
		}
	}
	return false
}

// Add registers texts and returns how many were new. Blank texts and
// duplicates are ignored.
func (r *Registry) Add(texts ...string) int {
	added := 0
	for _, text := range texts {
		key := textnorm.Key(text)
		if key == "" || r.contains(key) {
			continue
		}
		*r = append(*r, key)
		added++
	}
	return added
}

// Clone returns an independent copy.
func (r Registry) Clone() Registry {
	if r == nil {
		return nil
	}
	out := make(Registry, len(r))
	copy(out, r)
	return out
}
