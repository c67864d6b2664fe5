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
	"math"

	"github.com/ctessum/sparse"
)

// AlphaParam is a recursive-filter decay coefficient that is either a
// single scalar applied everywhere or a per-cell field shaped like the
// grid's spatial axes. Use ScalarAlpha or FieldAlpha to create one.
type AlphaParam struct {
	scalar float64
	field  *sparse.DenseArray
}

// ScalarAlpha specifies a decay coefficient that is uniform in space.
func ScalarAlpha(a float64) AlphaParam {
	return AlphaParam{scalar: a}
}

// FieldAlpha specifies a per-cell decay coefficient field.
func FieldAlpha(f *sparse.DenseArray) AlphaParam {
	return AlphaParam{field: f}
}

// validate checks that every coefficient lies in the open interval
// (0, 1) and, for field form, that the field matches the spatial shape.
func (a AlphaParam) validate(ny, nx int) error {
	if a.field == nil {
		if a.scalar <= 0 || a.scalar >= 1 {
			return InvalidAlphaError{Value: a.scalar}
		}
		return nil
	}
	if len(a.field.Shape) != 2 || a.field.Shape[0] != ny || a.field.Shape[1] != nx {
		return ShapeMismatchError{Want: []int{ny, nx}, Got: a.field.Shape}
	}
	for _, v := range a.field.Elements {
		if v <= 0 || v >= 1 {
			return InvalidAlphaError{Value: v}
		}
	}
	return nil
}

// at returns the coefficient for cell (iy, ix).
func (a AlphaParam) at(iy, ix int) float64 {
	if a.field == nil {
		return a.scalar
	}
	return a.field.Get(iy, ix)
}

// RecursiveFilter approximates Gaussian smoothing by repeated
// directional first-order passes. Each iteration runs one x-direction
// pass followed by one y-direction pass; each pass sweeps forward then
// backward along its axis so that neither direction is favored. More
// iterations give a closer Gaussian approximation at more cost.
type RecursiveFilter struct {
	// AlphaX and AlphaY are the decay coefficients for the
	// x-direction and y-direction passes. Either may be scalar or a
	// per-cell field, independently of the other.
	AlphaX, AlphaY AlphaParam
	// Iterations is the number of x-then-y pass pairs. It must be at
	// least 1.
	Iterations int
	// ReMask forces cells that are invalid in the input mask back to
	// invalid in the output. Without it the output is fully valid and
	// originally invalid cells hold propagated estimates (or NaN where
	// no valid data could reach them).
	ReMask bool
}

// Apply smooths each spatial slice of the grid and returns the result
// as a new grid; the input is left unmodified. Invalid input cells
// never contribute their own values: each sweep carries the last
// propagated value across them unchanged, and regions with no valid
// data stay NaN rather than acquiring invented energy.
func (f *RecursiveFilter) Apply(g *Grid) (*Grid, error) {
	if f.Iterations < 1 {
		return nil, configErrorf("gridsmooth: recursive filter iterations must be positive; got %d", f.Iterations)
	}
	ny, nx := g.SpatialShape()
	if err := f.AlphaX.validate(ny, nx); err != nil {
		return nil, err
	}
	if err := f.AlphaY.validate(ny, nx); err != nil {
		return nil, err
	}

	out := &Grid{Data: g.Data.Copy(), Dx: g.Dx, Dy: g.Dy}
	for _, s := range spatialSlices(out.Data) {
		// Discard invalid input values up front so they cannot leak
		// into the sweeps.
		if g.Mask != nil {
			for iy := 0; iy < ny; iy++ {
				for ix := 0; ix < nx; ix++ {
					if !g.valid(iy, ix) {
						s.Set(math.NaN(), iy, ix)
					}
				}
			}
		}
		for it := 0; it < f.Iterations; it++ {
			xPass(s, f.AlphaX)
			yPass(s, f.AlphaY)
		}
	}

	if f.ReMask && g.Mask != nil {
		mask := sparse.ZerosDenseInt(ny, nx)
		copy(mask.Elements, g.Mask.Elements)
		out.Mask = mask
		for _, s := range spatialSlices(out.Data) {
			for iy := 0; iy < ny; iy++ {
				for ix := 0; ix < nx; ix++ {
					if !g.valid(iy, ix) {
						s.Set(math.NaN(), iy, ix)
					}
				}
			}
		}
	}
	return out, nil
}

// xPass sweeps every row forward then backward along the x axis:
// out[i] = α·out[i±1] + (1-α)·out[i], with the identity at the starting
// boundary. NaN cells take the propagated value without contributing.
func xPass(s *sparse.DenseArray, alpha AlphaParam) {
	ny, nx := s.Shape[0], s.Shape[1]
	for iy := 0; iy < ny; iy++ {
		var prev float64
		havePrev := false
		for ix := 0; ix < nx; ix++ {
			prev, havePrev = sweepCell(s, alpha, iy, ix, prev, havePrev)
		}
		havePrev = false
		for ix := nx - 1; ix >= 0; ix-- {
			prev, havePrev = sweepCell(s, alpha, iy, ix, prev, havePrev)
		}
	}
}

// yPass is xPass along the y axis, sweeping every column.
func yPass(s *sparse.DenseArray, alpha AlphaParam) {
	ny, nx := s.Shape[0], s.Shape[1]
	for ix := 0; ix < nx; ix++ {
		var prev float64
		havePrev := false
		for iy := 0; iy < ny; iy++ {
			prev, havePrev = sweepCell(s, alpha, iy, ix, prev, havePrev)
		}
		havePrev = false
		for iy := ny - 1; iy >= 0; iy-- {
			prev, havePrev = sweepCell(s, alpha, iy, ix, prev, havePrev)
		}
	}
}

// sweepCell advances one sweep by one cell, updating the cell in place
// and returning the new propagated state. Updates write Elements
// directly because sparse's Set drops zero values, and a sweep crossing
// zero is ordinary here.
func sweepCell(s *sparse.DenseArray, alpha AlphaParam, iy, ix int, prev float64, havePrev bool) (float64, bool) {
	i := s.Index1d(iy, ix)
	v := s.Elements[i]
	if math.IsNaN(v) {
		// No usable value here: carry the propagated value across
		// without decay, or leave the cell empty if nothing has been
		// propagated yet.
		if havePrev {
			s.Elements[i] = prev
		}
		return prev, havePrev
	}
	if havePrev {
		a := alpha.at(iy, ix)
		v = a*prev + (1-a)*v
		s.Elements[i] = v
	}
	return v, true
}
