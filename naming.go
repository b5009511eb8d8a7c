package docmap

import (
	"strings"
	"unicode"
)

// defaultCollectionName derives a collection name from a root descriptor:
// namespace segments and type name underscored, the final segment
// pluralized, segments joined by '.' in outer-to-inner order.
// BloggyPoo/Post -> "bloggy_poo.posts", bare Item -> "items".
func defaultCollectionName(root *Descriptor) string {
	segments := make([]string, 0, len(root.namespace)+1)
	for _, ns := range root.namespace {
		segments = append(segments, underscore(ns))
	}
	segments = append(segments, pluralize(underscore(root.name)))
	return strings.Join(segments, ".")
}

// underscore converts a CamelCase type name to lowercase underscore form.
// Acronym runs stay together: "HTTPRequest" -> "http_request".
func underscore(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || (unicode.IsUpper(runes[i-1]) && nextLower)) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// pluralize applies the handful of English rules the declared type names
// need: -y -> -ies, sibilant endings -> -es, otherwise -s.
func pluralize(word string) string {
	if word == "" {
		return word
	}

	switch {
	case strings.HasSuffix(word, "y") && !hasVowelBeforeY(word):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(word, "s"),
		strings.HasSuffix(word, "x"),
		strings.HasSuffix(word, "z"),
		strings.HasSuffix(word, "ch"),
		strings.HasSuffix(word, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}

func hasVowelBeforeY(word string) bool {
	if len(word) < 2 {
		return false
	}
	return strings.ContainsRune("aeiou", rune(word[len(word)-2]))
}
