package detect

import "strings"

// levenshtein computes the optimal string alignment distance, counting
// adjacent transpositions as one edit so common typos score well.
func levenshtein(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	rows := make([][]int, len(ar)+1)
	for i := range rows {
		rows[i] = make([]int, len(br)+1)
		rows[i][0] = i
	}
	for j := 0; j <= len(br); j++ {
		rows[0][j] = j
	}

	for i := 1; i <= len(ar); i++ {
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			d := min3(rows[i][j-1]+1, rows[i-1][j]+1, rows[i-1][j-1]+cost)
			if i > 1 && j > 1 && ar[i-1] == br[j-2] && ar[i-2] == br[j-1] {
				if t := rows[i-2][j-2] + 1; t < d {
					d = t
				}
			}
			rows[i][j] = d
		}
	}
	return rows[len(ar)][len(br)]
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

// similarityRatio returns a match ratio in [0,1], 1 meaning identical.
func similarityRatio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longest)
}

// bestTokenRatio slides the keyword over the text tokens and returns the best
// ratio of the keyword against any window of the same token length.
func bestTokenRatio(text, keyword string) float64 {
	tokens := strings.Fields(strings.ToLower(text))
	kwTokens := strings.Fields(strings.ToLower(keyword))
	if len(kwTokens) == 0 || len(tokens) == 0 {
		return 0
	}
	if len(kwTokens) > len(tokens) {
		return similarityRatio(text, keyword)
	}

	best := 0.0
	for i := 0; i+len(kwTokens) <= len(tokens); i++ {
		window := strings.Join(tokens[i:i+len(kwTokens)], " ")
		if r := similarityRatio(window, keyword); r > best {
			best = r
		}
	}
	return best
}
