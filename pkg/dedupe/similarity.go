package dedupe

// Ratio measures the similarity of two strings in [0, 1] as twice the
// number of matching characters over the total length, where matches are
// found by repeatedly locating the longest common block and recursing on
// the unmatched remainders. Normalized labels are plain ASCII, so the
// comparison works on bytes.
func Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 2 * float64(matchingChars(a, b)) / float64(len(a)+len(b))
}

// matchingChars counts characters covered by common blocks.
func matchingChars(a, b string) int {
	ai, bj, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bj]) +
		matchingChars(a[ai+size:], b[bj+size:])
}

// longestMatch finds the longest common block of a and b, preferring the
// earliest position in a, then in b, on ties.
func longestMatch(a, b string) (ai, bj, size int) {
	b2j := make(map[byte][]int)
	for j := 0; j < len(b); j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	// j2len[j] is the length of the longest block ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := 0; i < len(a); i++ {
		next := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			next[j] = k
			if k > size {
				ai, bj, size = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return ai, bj, size
}
