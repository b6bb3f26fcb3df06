package matcher

// Similarity computes the Ratcliff/Obershelp sequence-similarity ratio
// between two strings: 2*M/T where M is the total number of matching
// characters across recursively found longest common blocks and T is the
// combined length. The result is in [0, 1]; two empty strings are
// considered identical.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2 * float64(matchingChars(ra, rb)) / float64(total)
}

func matchingChars(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

// longestMatch finds the longest block of runes common to a and b,
// preferring the earliest occurrence in a on ties.
func longestMatch(a, b []rune) (ai, bi, size int) {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	// j2len[j] is the length of the match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i, r := range a {
		next := make(map[int]int)
		for _, j := range b2j[r] {
			k := j2len[j-1] + 1
			next[j] = k
			if k > size {
				ai, bi, size = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return ai, bi, size
}
