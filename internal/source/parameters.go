package source

import (
	"strings"

	"shopmigrate/converter/internal/domain"
	"shopmigrate/converter/internal/normalize"
)

const (
	parameterSeparator = "##"
	keyValueSeparator  = "||"
)

// ParseParameters reads "key||value##key||value" into ordered attributes.
// Keys are normalized and mapped through aliases; the first value of a repeated key wins.
func ParseParameters(raw string, aliases map[string]string) domain.Attributes {
	var attrs domain.Attributes

	for _, pair := range strings.Split(raw, parameterSeparator) {
		key, value, ok := strings.Cut(pair, keyValueSeparator)
		if !ok {
			continue
		}

		key = canonicalKey(key, aliases)
		value = normalize.CollapseSpaces(value)
		if key == "" || value == "" {
			continue
		}
		if _, exists := attrs.Get(key); exists {
			continue
		}
		attrs = append(attrs, domain.Attribute{Key: key, Value: value})
	}

	return attrs
}

func canonicalKey(key string, aliases map[string]string) string {
	key = normalize.Key(key)
	if alias, ok := aliases[key]; ok {
		return normalize.Key(alias)
	}
	return key
}

// normalizeAliases makes alias lookups independent of case and diacritics
func normalizeAliases(aliases map[string]string) map[string]string {
	out := make(map[string]string, len(aliases))
	for from, to := range aliases {
		out[normalize.Key(from)] = to
	}
	return out
}
