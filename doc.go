// Package weierstrass illustrates the extreme value theorem: a function
// continuous on a closed, bounded interval attains a global minimum and a
// global maximum there.
//
// Given a formula in x and an interval [a, b] the engine
//   - checks continuity by dense sampling (CheckContinuity),
//   - finds interior critical points, symbolically first and by a numeric
//     sign-change scan with bisection otherwise (FindCriticalPoints),
//   - compares the endpoints with the critical points and classifies each
//     critical point with the second-derivative test (Analyze).
//
// The result of Analyze is an immutable AnalysisResult; the text report,
// plots, history store and tool server are consumers of that record.
//
//	res, err := weierstrass.AnalyzeFormula("x**3 - 6*x**2 + 9*x + 2", 0, 4)
//	if errors.Is(err, weierstrass.ErrDiscontinuous) {
//	    // the theorem does not apply on this interval
//	}
package weierstrass
