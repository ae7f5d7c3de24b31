package calculator

import "gonum.org/v1/gonum/stat/combin"

// PermutationCount returns the number of distinct orderings of the characters
// in digits: n! / prod(count(c)!). The empty string yields 1.
//
// The multinomial is built as a product of binomials so intermediate values
// stay small for the short strings bet numbers produce.
func PermutationCount(digits string) int64 {
	counts := make(map[rune]int)
	for _, c := range digits {
		counts[c]++
	}

	result := int64(1)
	remaining := 0
	for _, c := range digits {
		k, ok := counts[c]
		if !ok {
			continue
		}
		delete(counts, c)
		remaining += k
		result *= int64(combin.Binomial(remaining, k))
	}
	return result
}
