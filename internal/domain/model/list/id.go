package list

import (
	"regexp"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
)

// DefaultID names the list used when none is given.
const DefaultID = "default"

// List ids double as file names and object keys.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// ValidateID rejects ids that are not safe as a single path segment.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return failure.Newf(failure.KindInvalid, "invalid list id %q: use letters, digits, '.', '_' or '-'", id)
	}
	return nil
}
