package identifier

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackAPIName is used when a display name has no usable characters.
const fallbackAPIName = "unnamed"

// GenerateAPIName derives a valid api name from a display name. Accents are
// folded, every run of characters outside [a-z0-9] becomes a single
// underscore, and a numeric suffix is appended until the result is not in
// taken.
func GenerateAPIName(name string, taken []string) string {
	base := slugify(name)
	if base == "" {
		base = fallbackAPIName
	}

	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[strings.TrimSpace(t)] = struct{}{}
	}

	candidate := truncate(base, MaxLength)
	for n := 2; ; n++ {
		if _, clash := used[candidate]; !clash {
			return candidate
		}
		suffix := "_" + strconv.Itoa(n)
		candidate = truncate(base, MaxLength-len(suffix)) + suffix
	}
}

func slugify(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// truncate cuts s to at most n bytes without leaving a trailing underscore.
// s only ever holds ascii at this point.
func truncate(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return strings.TrimRight(s, "_")
}
