package analyzer

// Similarity compares two passwords so a "new vs old" change can be judged.
// Verdicts are driven by normalized Levenshtein distance; the longest common
// substring is reported alongside as supporting evidence.
type Similarity struct {
	LevenshteinDistance int     `json:"levenshtein_distance"`
	SimilarityPct       float64 `json:"similarity_pct"`
	LCSLength           int     `json:"lcs_length"`
	LCSPct              float64 `json:"lcs_pct"`
	TooSimilar          bool    `json:"too_similar"`
}

// tooSimilarPct is the similarity percentage at or above which a replacement
// password is judged too close to the original.
const tooSimilarPct = 70

// Compare returns similarity metrics between two passwords.
func Compare(a, b string) Similarity {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		maxLen = 1
	}

	dist := levenshtein(ra, rb)
	simPct := round1((1 - float64(dist)/float64(maxLen)) * 100)
	lcs := longestCommonSubstring(ra, rb)
	return Similarity{
		LevenshteinDistance: dist,
		SimilarityPct:       simPct,
		LCSLength:           lcs,
		LCSPct:              round1(float64(lcs) / float64(maxLen) * 100),
		TooSimilar:          simPct >= tooSimilarPct,
	}
}

// levenshtein computes edit distance with a rolling single-row buffer.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	curr := make([]int, len(b)+1)

	for i, ca := range a {
		curr[0] = i + 1
		for j, cb := range b {
			cost := 1
			if ca == cb {
				cost = 0
			}
			curr[j+1] = min3(curr[j]+1, prev[j+1]+1, prev[j]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// longestCommonSubstring returns the length of the longest run of runes
// shared by a and b.
func longestCommonSubstring(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	longest := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > longest {
					longest = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return longest
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func round1(f float64) float64 {
	// one decimal place, as reported to clients
	if f < 0 {
		return float64(int(f*10-0.5)) / 10
	}
	return float64(int(f*10+0.5)) / 10
}
