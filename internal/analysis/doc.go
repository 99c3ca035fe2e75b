// Package analysis inspects saved metric histories.
//
// [Analyze] transforms a history with its mean removed, so a field that
// settles or oscillates shows up as energy in the low or periodic bins:
//
//	s := analysis.Analyze(history)
//	bin, _ := s.Peak()
//	fmt.Printf("period %.1f steps\n", s.Period(bin))
package analysis
