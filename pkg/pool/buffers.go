package pool

// Ints holds scratch []int buffers, used by list reconciliation for
// position maps and longest-increasing-subsequence bookkeeping.
var Ints = New("ids",
	func() *[]int {
		s := make([]int, 0, 64)
		return &s
	},
	func(s *[]int) { *s = (*s)[:0] },
)

// Strings holds scratch []string buffers for key lists.
var Strings = New("keys",
	func() *[]string {
		s := make([]string, 0, 64)
		return &s
	},
	func(s *[]string) {
		clear(*s)
		*s = (*s)[:0]
	},
)
