// Package lcs suggests the intended identifier for a misspelled one by the
// longest common prefix and suffix they share.
package lcs

// prefixLen returns the length in bytes of the common prefix of a and b.
func prefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// suffixLen returns the length in bytes of the common suffix of a and b.
func suffixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[len(a)-1-i] != b[len(b)-1-i] {
			return i
		}
	}
	return n
}

// sharedWords returns the total length of the words a and b share at the start
// and at the end. A shared word is counted once.
func sharedWords(a, b string) int {
	wa, wb := Words(a), Words(b)
	n := min(len(wa), len(wb))

	size, i := 0, 0
	for ; i < n && wa[i] == wb[i]; i++ {
		size += len(wa[i])
	}
	for j := 1; j <= n-i && wa[len(wa)-j] == wb[len(wb)-j]; j++ {
		size += len(wa[len(wa)-j])
	}
	return size
}
