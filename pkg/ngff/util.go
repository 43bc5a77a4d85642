package ngff

// Duplicates returns the values that occur more than once in vals, mapped to
// their occurrence count.
func Duplicates(vals []string) map[string]int {
	counts := make(map[string]int, len(vals))
	for _, v := range vals {
		counts[v]++
	}
	dupes := map[string]int{}
	for v, n := range counts {
		if n > 1 {
			dupes[v] = n
		}
	}
	return dupes
}
