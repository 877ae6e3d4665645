package control

import "github.com/vango-dev/lumen/pkg/pool"

// markLIS sets keep[i] to 1 for the positions of src that form a longest
// strictly increasing subsequence and to 0 elsewhere. Negative entries
// (new items) never take part.
//
// Entries on the subsequence are already in relative order, so only the
// others have to move.
func markLIS(src, keep []int) {
	for i := range keep {
		keep[i] = 0
	}

	tailsBuf := pool.Ints.Acquire()
	prevBuf := pool.Ints.Acquire()
	defer pool.Ints.Release(tailsBuf)
	defer pool.Ints.Release(prevBuf)

	tails := *tailsBuf
	prev := sized(prevBuf, len(src), -1)

	for i, v := range src {
		if v < 0 {
			continue
		}
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if src[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	*tailsBuf = tails

	if len(tails) == 0 {
		return
	}
	for k := tails[len(tails)-1]; k >= 0; k = prev[k] {
		keep[k] = 1
	}
}

// sized resets buf to n copies of fill.
func sized(buf *[]int, n, fill int) []int {
	s := (*buf)[:0]
	for i := 0; i < n; i++ {
		s = append(s, fill)
	}
	*buf = s
	return s
}
