package endee

import (
	"regexp"
	"sort"
)

var indexNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateIndexName reports whether name is usable as an Endee index name:
// non-empty, strictly shorter than 48 characters, and made of alphanumerics
// and underscores only.
func ValidateIndexName(name string) bool {
	if name == "" || len(name) >= maxIndexNameLen {
		return false
	}
	return indexNameRe.MatchString(name)
}

// validateVectorIDs rejects an empty id immediately, then scans the whole
// batch so a duplicate failure reports every repeated id at once.
func validateVectorIDs(ids []string) error {
	seen := make(map[string]bool, len(ids))
	dup := make(map[string]bool)
	for _, id := range ids {
		if id == "" {
			return ErrEmptyID
		}
		if seen[id] {
			dup[id] = true
		}
		seen[id] = true
	}
	if len(dup) == 0 {
		return nil
	}
	out := make([]string, 0, len(dup))
	for id := range dup {
		out = append(out, id)
	}
	sort.Strings(out)
	return &DuplicateIDError{IDs: out}
}
