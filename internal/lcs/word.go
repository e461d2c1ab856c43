package lcs

import "unicode"

// Words splits an identifier into words. A word starts at a lower-to-upper
// case change, at the last capital of an initialism followed by a lowercase
// letter, and wherever a run of underscores or digits begins or ends.
//
//	userID     -> user ID
//	HTTPServer -> HTTP Server
//	max_retry2 -> max _ retry 2
func Words(ident string) []string {
	rs := []rune(ident)
	if len(rs) == 0 {
		return nil
	}

	var words []string
	start := 0
	for i := 1; i < len(rs); i++ {
		if startsWord(rs, i) {
			words = append(words, string(rs[start:i]))
			start = i
		}
	}
	return append(words, string(rs[start:]))
}

func startsWord(rs []rune, i int) bool {
	prev, curr := rs[i-1], rs[i]
	switch {
	case (prev == '_') != (curr == '_'):
		return true
	case unicode.IsDigit(prev) != unicode.IsDigit(curr):
		return true
	case unicode.IsLower(prev) && unicode.IsUpper(curr):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(curr):
		return i+1 < len(rs) && unicode.IsLower(rs[i+1])
	}
	return false
}
