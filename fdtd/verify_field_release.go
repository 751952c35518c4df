//go:build !verify_field

package fdtd

// Empty stub that will be optimized out
func verifyField(cells []Cell, p []float64) {}
