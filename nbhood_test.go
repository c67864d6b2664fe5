/*
Copyright © 2026 the GridSmooth authors.
This file is part of GridSmooth.

GridSmooth is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GridSmooth is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GridSmooth.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridsmooth

import (
	"errors"
	"math"
	"testing"

	"github.com/ctessum/sparse"
)

func constGrid(t *testing.T, ny, nx int, val float64) *Grid {
	t.Helper()
	data := sparse.ZerosDense(ny, nx)
	for i := range data.Elements {
		data.Elements[i] = val
	}
	g, err := NewGrid(data, nil, 1000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

// clearMask marks cell (iy, ix) invalid. sparse's Set drops zero
// values, so the write has to go through Elements.
func clearMask(mask *sparse.DenseArrayInt, iy, ix int) {
	mask.Elements[mask.Index1d(iy, ix)] = 0
}

// The weighted mean of a constant field is the field itself, at the
// edges just as much as in the interior: edge truncation shrinks the
// numerator and the denominator together.
func TestAggregateConstantField(t *testing.T) {
	const tolerance = 1e-12

	g := constGrid(t, 5, 5, 3.0)
	k, err := BuildKernel(Square, 1000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	out, err := AggregateProbabilities(g, k, Fraction, false)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Data.Elements {
		if absDifferent(v, 3.0, tolerance) {
			t.Errorf("element %d: want 3 but have %g", i, v)
		}
	}
}

// For a fully valid grid and a flat kernel, the fraction-mode output
// times the in-bounds footprint cell count equals the sum-mode output.
func TestFractionVsSumConsistency(t *testing.T) {
	const tolerance = 1e-9

	ny, nx := 6, 7
	data := sparse.ZerosDense(ny, nx)
	for i := range data.Elements {
		data.Elements[i] = float64(i%5) + 0.25
	}
	g, err := NewGrid(data, nil, 1000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	k, err := BuildKernel(Square, 2000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	frac, err := AggregateProbabilities(g, k, Fraction, false)
	if err != nil {
		t.Fatal(err)
	}
	sum, err := AggregateProbabilities(g, k, Sum, false)
	if err != nil {
		t.Fatal(err)
	}
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			count := 0
			for dy := -k.R; dy <= k.R; dy++ {
				for dx := -k.R; dx <= k.R; dx++ {
					if iy+dy >= 0 && iy+dy < ny && ix+dx >= 0 && ix+dx < nx {
						count++
					}
				}
			}
			have := frac.Data.Get(iy, ix) * float64(count)
			want := sum.Data.Get(iy, ix)
			if absDifferent(have, want, tolerance) {
				t.Errorf("cell (%d,%d): fraction×%d = %g but sum = %g",
					iy, ix, count, have, want)
			}
		}
	}
}

func TestMaskPropagation(t *testing.T) {
	ny, nx := 5, 5
	data := sparse.ZerosDense(ny, nx)
	for i := range data.Elements {
		data.Elements[i] = 1
	}
	mask := fullMask(ny, nx)
	// Invalidate the top-left 3×3 block so that cell (1,1) has a
	// fully invalid footprint for a radius-1 kernel.
	for iy := 0; iy < 3; iy++ {
		for ix := 0; ix < 3; ix++ {
			clearMask(mask, iy, ix)
		}
	}
	g, err := NewGrid(data, mask, 1000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	k, err := BuildKernel(Square, 1000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	out, err := AggregateProbabilities(g, k, Fraction, false)
	if err != nil {
		t.Fatal(err)
	}
	if out.Mask.Get(1, 1) != 0 {
		t.Error("cell with fully invalid footprint is marked valid")
	}
	if !math.IsNaN(out.Data.Get(1, 1)) {
		t.Errorf("cell with fully invalid footprint holds the number %g", out.Data.Get(1, 1))
	}
	// A masked cell adjacent to valid cells gets a value from them.
	if out.Mask.Get(2, 2) == 0 {
		t.Error("masked cell with valid neighbours came out invalid without reMask")
	}
	if absDifferent(out.Data.Get(2, 2), 1, 1e-12) {
		t.Errorf("masked cell with valid neighbours: want 1 but have %g", out.Data.Get(2, 2))
	}
}

func TestAggregateReMask(t *testing.T) {
	ny, nx := 5, 5
	data := sparse.ZerosDense(ny, nx)
	for i := range data.Elements {
		data.Elements[i] = 2
	}
	mask := fullMask(ny, nx)
	clearMask(mask, 2, 2)
	g, err := NewGrid(data, mask, 1000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	k, err := BuildKernel(Square, 1000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}

	out, err := AggregateProbabilities(g, k, Fraction, true)
	if err != nil {
		t.Fatal(err)
	}
	if out.Mask.Get(2, 2) != 0 {
		t.Error("reMask did not restore the invalid cell")
	}
	if !math.IsNaN(out.Data.Get(2, 2)) {
		t.Errorf("reMasked cell holds the number %g", out.Data.Get(2, 2))
	}
	if out.Mask.Get(1, 1) == 0 {
		t.Error("reMask invalidated a cell that was valid in the input")
	}
}

func TestAggregatePercentiles(t *testing.T) {
	ny, nx := 5, 5
	data := sparse.ZerosDense(ny, nx)
	for i := range data.Elements {
		data.Elements[i] = float64(i + 1)
	}
	g, err := NewGrid(data, nil, 1000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	k, err := BuildKernel(Circular, 2000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	percentiles := []float64{10, 25, 50, 75, 90}
	out, err := AggregatePercentiles(g, k, percentiles, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(percentiles) {
		t.Fatalf("want %d output grids but have %d", len(percentiles), len(out))
	}
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			// Increasing the requested percentile must never
			// decrease the value.
			for i := 1; i < len(percentiles); i++ {
				lo := out[percentiles[i-1]].Data.Get(iy, ix)
				hi := out[percentiles[i]].Data.Get(iy, ix)
				if hi < lo {
					t.Errorf("cell (%d,%d): p%g=%g exceeds p%g=%g",
						iy, ix, percentiles[i-1], lo, percentiles[i], hi)
				}
			}
			// Every order statistic stays within the input range.
			for _, p := range percentiles {
				v := out[p].Data.Get(iy, ix)
				if v < 1 || v > 25 {
					t.Errorf("cell (%d,%d) p%g: %g is outside the input range", iy, ix, p, v)
				}
			}
		}
	}
}

// Any percentile of a constant field is that constant, whatever the
// rank-interpolation convention.
func TestAggregatePercentilesConstantField(t *testing.T) {
	g := constGrid(t, 5, 5, 3.5)
	k, err := BuildKernel(Circular, 2000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	out, err := AggregatePercentiles(g, k, []float64{5, 50, 95}, false)
	if err != nil {
		t.Fatal(err)
	}
	for p, grid := range out {
		for i, v := range grid.Data.Elements {
			if absDifferent(v, 3.5, 1e-12) {
				t.Errorf("p%g element %d: want 3.5 but have %g", p, i, v)
			}
		}
	}
}

func TestAggregatePercentilesErrors(t *testing.T) {
	g := constGrid(t, 5, 5, 1)
	square, err := BuildKernel(Square, 1000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	circular, err := BuildKernel(Circular, 1000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	weighted, err := BuildKernel(Circular, 2000, 1000, true, 1)
	if err != nil {
		t.Fatal(err)
	}

	var ce ConfigurationError
	if _, err := AggregatePercentiles(g, square, []float64{50}, false); !errors.As(err, &ce) {
		t.Errorf("square kernel: want ConfigurationError but have %v", err)
	}
	if _, err := AggregatePercentiles(g, weighted, []float64{50}, false); !errors.As(err, &ce) {
		t.Errorf("weighted kernel: want ConfigurationError but have %v", err)
	}
	if _, err := AggregatePercentiles(g, circular, nil, false); !errors.As(err, &ce) {
		t.Errorf("no percentiles: want ConfigurationError but have %v", err)
	}
	if _, err := AggregatePercentiles(g, circular, []float64{101}, false); !errors.As(err, &ce) {
		t.Errorf("out-of-range percentile: want ConfigurationError but have %v", err)
	}

	masked := sparse.ZerosDenseInt(5, 5) // every cell invalid
	gm, err := NewGrid(g.Data, masked, 1000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	var ie InsufficientDataError
	if _, err := AggregatePercentiles(gm, circular, []float64{50}, false); !errors.As(err, &ie) {
		t.Errorf("fully masked grid: want InsufficientDataError but have %v", err)
	}
}

func TestAggregateModeErrors(t *testing.T) {
	g := constGrid(t, 5, 5, 1)
	k, err := BuildKernel(Square, 1000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	var ce ConfigurationError
	if _, err := AggregateProbabilities(g, k, SumOrFraction("mean"), false); !errors.As(err, &ce) {
		t.Errorf("unknown mode: want ConfigurationError but have %v", err)
	}
}

func TestAggregateFootprintTooLarge(t *testing.T) {
	g := constGrid(t, 2, 2, 1)
	k, err := BuildKernel(Square, 5000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	var ie InsufficientDataError
	if _, err := AggregateProbabilities(g, k, Fraction, false); !errors.As(err, &ie) {
		t.Errorf("oversized footprint: want InsufficientDataError but have %v", err)
	}
}

// Leading axes are aggregated slice by slice, each independently.
func TestAggregateSlices(t *testing.T) {
	const tolerance = 1e-12

	data := sparse.ZerosDense(2, 4, 4)
	for iy := 0; iy < 4; iy++ {
		for ix := 0; ix < 4; ix++ {
			data.Set(1, 0, iy, ix)
			data.Set(2, 1, iy, ix)
		}
	}
	g, err := NewGrid(data, nil, 1000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	k, err := BuildKernel(Square, 1000, 1000, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	out, err := AggregateProbabilities(g, k, Fraction, false)
	if err != nil {
		t.Fatal(err)
	}
	for iy := 0; iy < 4; iy++ {
		for ix := 0; ix < 4; ix++ {
			if absDifferent(out.Data.Get(0, iy, ix), 1, tolerance) {
				t.Errorf("slice 0 cell (%d,%d): want 1 but have %g", iy, ix, out.Data.Get(0, iy, ix))
			}
			if absDifferent(out.Data.Get(1, iy, ix), 2, tolerance) {
				t.Errorf("slice 1 cell (%d,%d): want 2 but have %g", iy, ix, out.Data.Get(1, iy, ix))
			}
		}
	}
}
