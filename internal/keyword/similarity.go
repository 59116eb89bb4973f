// Package keyword provides approximate string matching for the public
// question/answer bank.
package keyword

// autojunkMinLen is the target length from which very frequent characters are
// ignored when searching for matching blocks.
const autojunkMinLen = 200

// SequenceMatcher scores candidate strings against a fixed target using the
// longest-common-matching-blocks ratio. The character index of the target is
// built once, so one matcher can score many candidates.
type SequenceMatcher struct {
	b      []rune
	b2j    map[rune][]int
	bcount map[rune]int
}

// NewSequenceMatcher indexes target. When target is at least 200 characters
// long, characters occurring in more than 1% of it (plus one) are treated as
// junk and never start or anchor a matching block.
func NewSequenceMatcher(target string) *SequenceMatcher {
	b := []rune(target)
	b2j := make(map[rune][]int)
	bcount := make(map[rune]int)
	for i, r := range b {
		b2j[r] = append(b2j[r], i)
		bcount[r]++
	}
	if n := len(b); n >= autojunkMinLen {
		ntest := n/100 + 1
		for r, idxs := range b2j {
			if len(idxs) > ntest {
				delete(b2j, r)
			}
		}
	}
	return &SequenceMatcher{b: b, b2j: b2j, bcount: bcount}
}

// Ratio returns 2*M/T in [0,1], where M is the number of characters in all
// matching blocks between candidate and the target and T is their combined
// length. Two empty strings have ratio 1.
func (m *SequenceMatcher) Ratio(candidate string) float64 {
	a := []rune(candidate)
	return calculateRatio(m.matchingCharacters(a), len(a)+len(m.b))
}

// QuickRatio returns an upper bound on Ratio computed from character counts only.
func (m *SequenceMatcher) QuickRatio(candidate string) float64 {
	a := []rune(candidate)
	avail := make(map[rune]int)
	matches := 0
	for _, r := range a {
		n, ok := avail[r]
		if !ok {
			n = m.bcount[r]
		}
		avail[r] = n - 1
		if n > 0 {
			matches++
		}
	}
	return calculateRatio(matches, len(a)+len(m.b))
}

// RealQuickRatio returns an upper bound on Ratio computed from lengths only.
func (m *SequenceMatcher) RealQuickRatio(candidate string) float64 {
	la, lb := len([]rune(candidate)), len(m.b)
	return calculateRatio(min(la, lb), la+lb)
}

// Ratio is a convenience wrapper scoring a against b.
func Ratio(a, b string) float64 {
	return NewSequenceMatcher(b).Ratio(a)
}

func calculateRatio(matches, length int) float64 {
	if length > 0 {
		return 2.0 * float64(matches) / float64(length)
	}
	return 1.0
}

// matchingCharacters finds the longest matching block, then recurses into
// the unmatched regions on both sides, and returns the summed block sizes.
func (m *SequenceMatcher) matchingCharacters(a []rune) int {
	total := 0
	queue := [][4]int{{0, len(a), 0, len(m.b)}}
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]
		i, j, k := m.findLongestMatch(a, alo, ahi, blo, bhi)
		if k == 0 {
			continue
		}
		total += k
		if alo < i && blo < j {
			queue = append(queue, [4]int{alo, i, blo, j})
		}
		if i+k < ahi && j+k < bhi {
			queue = append(queue, [4]int{i + k, ahi, j + k, bhi})
		}
	}
	return total
}

// findLongestMatch returns the longest block a[i:i+k] == b[j:j+k] inside
// a[alo:ahi] and b[blo:bhi]. Among equally long blocks it returns the one
// that starts earliest in a, then earliest in b. The block is finally
// extended over adjacent equal junk characters.
func (m *SequenceMatcher) findLongestMatch(a []rune, alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestsize := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	for besti > alo && bestj > blo && a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestsize = besti-1, bestj-1, bestsize+1
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi && a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}
	return besti, bestj, bestsize
}
