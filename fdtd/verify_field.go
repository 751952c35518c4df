//go:build verify_field

package fdtd

import (
	"fmt"
	"math"
)

func init() {
	fmt.Println("Field verification enabled.")
}

// verifyField panics if a wall cell carries pressure or any cell is not finite.
func verifyField(cells []Cell, p []float64) {
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("cell %d is not finite: %v", i, v))
		}
		if cells[i] == Wall && v != 0 {
			panic(fmt.Sprintf("wall cell %d has pressure %g", i, v))
		}
	}
}
