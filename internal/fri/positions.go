package fri

import "sort"

// foldPositions maps each query position into the folded layer's index
// space (mod max) and removes duplicates introduced by the mapping, so the
// next layer down is queried exactly once per distinct folded position.
func foldPositions(positions []int, max int) []int {
	seen := make(map[int]bool, len(positions))
	folded := make([]int, 0, len(positions))
	for _, p := range positions {
		m := p % max
		if !seen[m] {
			seen[m] = true
			folded = append(folded, m)
		}
	}
	sort.Ints(folded)
	return folded
}
