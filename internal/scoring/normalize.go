package scoring

import "strings"

// Normalize canonicalises an answer before comparison: it trims and
// lowercases the input and, when the input carries an option prefix such as
// "B) Central Library", keeps only the part before the first ')'.
//
// The result never contains ')' so Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(s, ')'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// normalizedSet normalises every element and drops the ones that end up
// empty. Duplicates collapse.
func normalizedSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
