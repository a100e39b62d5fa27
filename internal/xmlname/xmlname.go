// Package xmlname validates and repairs XML element names.
package xmlname

import (
	"strconv"
	"strings"
	"unicode"
)

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '-' || r == '.'
}

// IsValid reports whether name can be used as an unprefixed XML element name.
// Namespace prefixes (colons) are not accepted.
func IsValid(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !isNameStart(r) {
			return false
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

// IsValidQualified reports whether name is a valid element name, optionally
// preceded by a "{namespace}" part as used for namespaced tags.
func IsValidQualified(name string) bool {
	if strings.HasPrefix(name, "{") {
		end := strings.IndexByte(name, '}')
		if end <= 1 {
			return false
		}
		name = name[end+1:]
	}
	return IsValid(name)
}

// Sanitize turns name into a valid element name: invalid characters become
// underscores and a leading underscore is added when the first character
// cannot start a name.
// Example: "first name" -> "first_name"
// Example: "2024" -> "_2024"
func Sanitize(name string) string {
	if IsValid(name) {
		return name
	}
	if name == "" {
		return "_"
	}

	var b strings.Builder
	for i, r := range name {
		if i == 0 && !isNameStart(r) && isNameChar(r) {
			b.WriteByte('_')
		}
		if isNameChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// SanitizeAll sanitizes every name and keeps the results distinct: a name
// that would repeat an earlier one, or one that is already valid later in
// the list, gets the first free "_2", "_3", ... suffix. Names that are valid
// as given keep their spelling.
func SanitizeAll(names []string) []string {
	taken := make(map[string]bool, len(names))
	for _, name := range names {
		if IsValid(name) {
			taken[name] = true
		}
	}

	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		tag := Sanitize(name)
		if tag == name && !used[tag] {
			out[i] = tag
			used[tag] = true
			continue
		}
		base := tag
		for n := 2; used[tag] || taken[tag]; n++ {
			tag = base + "_" + strconv.Itoa(n)
		}
		out[i] = tag
		used[tag] = true
	}
	return out
}
