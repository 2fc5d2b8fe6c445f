package similarity

// Block is a contiguous matching run between two rune slices: a[A:A+Size]
// equals b[B:B+Size].
type Block struct {
	A    int
	B    int
	Size int
}

// Ratio is the longest-matching-block similarity of two strings in [0,1]:
// twice the total size of the matching blocks divided by the combined
// length. Character-level edit similarity, not vector similarity.
func Ratio(s1, s2 string) float64 {
	a := []rune(s1)
	b := []rune(s2)
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matched := 0
	for _, block := range MatchingBlocks(a, b) {
		matched += block.Size
	}
	return 2 * float64(matched) / float64(len(a)+len(b))
}

// RatioUpperBound is a cheap bound on Ratio based on lengths alone; pairs
// whose bound falls below the threshold can be skipped without the full
// block computation.
func RatioUpperBound(s1, s2 string) float64 {
	la := len([]rune(s1))
	lb := len([]rune(s2))
	if la+lb == 0 {
		return 1
	}
	shorter := la
	if lb < shorter {
		shorter = lb
	}
	return 2 * float64(shorter) / float64(la+lb)
}

// MatchingBlocks finds the maximal matching runs between a and b by
// recursively locating the longest common substring and descending into the
// unmatched regions on either side. Blocks are returned in ascending order
// of position in a.
func MatchingBlocks(a, b []rune) []Block {
	var blocks []Block
	var descend func(alo, ahi, blo, bhi int)
	descend = func(alo, ahi, blo, bhi int) {
		besti, bestj, size := longestMatch(a, b, alo, ahi, blo, bhi)
		if size == 0 {
			return
		}
		descend(alo, besti, blo, bestj)
		blocks = append(blocks, Block{A: besti, B: bestj, Size: size})
		descend(besti+size, ahi, bestj+size, bhi)
	}
	descend(0, len(a), 0, len(b))
	return blocks
}

func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	b2j := map[rune][]int{}
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}
	besti, bestj = alo, blo
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		newj2len := map[int]int{}
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
