package symbolic

import "math"

// ============================================================
// Numerical integration
// ============================================================

var (
	gaussNodes = []float64{
		-0.9739065285, -0.8650633667, -0.6794095683,
		-0.4333953941, -0.1488743390, 0.1488743390,
		0.4333953941, 0.6794095683, 0.8650633667, 0.9739065285,
	}
	gaussWeights = []float64{
		0.0666713443, 0.1494513492, 0.2190863625,
		0.2692667193, 0.2955242247, 0.2955242247,
		0.2692667193, 0.2190863625, 0.1494513492, 0.0666713443,
	}
)

// integrationPanels is the number of equal sub-intervals each receiving a
// 10-point Gauss-Legendre rule.
const integrationPanels = 32

// DefiniteIntegrate approximates ∫_a^b expr d(varName) by composite
// Gauss-Legendre quadrature. Non-finite samples are skipped.
func DefiniteIntegrate(expr Expr, varName string, a, b float64) (float64, error) {
	f, err := Compile(expr, varName)
	if err != nil {
		return 0, err
	}
	return IntegrateFunc(f, a, b), nil
}

// IntegrateFunc is DefiniteIntegrate for an already compiled function.
func IntegrateFunc(f Func1, a, b float64) float64 {
	width := (b - a) / integrationPanels
	total := 0.0
	for p := 0; p < integrationPanels; p++ {
		lo := a + float64(p)*width
		mid := lo + width/2
		half := width / 2
		sum := 0.0
		for i, t := range gaussNodes {
			v := f(mid + half*t)
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				sum += gaussWeights[i] * v
			}
		}
		total += half * sum
	}
	return total
}
