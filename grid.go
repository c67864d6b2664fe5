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

// Grid is a dense field of values over two or more axes. The last two
// axes of Data.Shape are the spatial (y, x) axes; any leading axes
// (realization, lead time, height) are processed independently, one
// spatial slice at a time. Dx and Dy give the physical cell spacing of
// the spatial axes, which must be uniform.
//
// Mask, when non-nil, marks valid cells with a nonzero entry. It is
// indexed by the spatial axes only and therefore shared by all leading
// slices. A nil mask means every cell is valid.
type Grid struct {
	Data *sparse.DenseArray
	Mask *sparse.DenseArrayInt
	Dx   float64
	Dy   float64
}

// NewGrid creates a Grid from data, an optional validity mask, and the
// spatial cell spacing. The mask shape must equal the data's spatial
// shape exactly.
func NewGrid(data *sparse.DenseArray, mask *sparse.DenseArrayInt, dx, dy float64) (*Grid, error) {
	if data == nil || len(data.Shape) < 2 {
		return nil, configErrorf("gridsmooth: grid data must have at least 2 axes")
	}
	if dx <= 0 || dy <= 0 {
		return nil, configErrorf("gridsmooth: cell spacing must be positive; got dx=%g dy=%g", dx, dy)
	}
	g := &Grid{Data: data, Mask: mask, Dx: dx, Dy: dy}
	if mask != nil {
		ny, nx := g.SpatialShape()
		if len(mask.Shape) != 2 || mask.Shape[0] != ny || mask.Shape[1] != nx {
			return nil, ShapeMismatchError{Want: []int{ny, nx}, Got: mask.Shape}
		}
	}
	return g, nil
}

// SpatialShape returns the lengths of the spatial (y, x) axes.
func (g *Grid) SpatialShape() (ny, nx int) {
	n := len(g.Data.Shape)
	return g.Data.Shape[n-2], g.Data.Shape[n-1]
}

// valid reports whether the spatial cell (iy, ix) holds usable data.
func (g *Grid) valid(iy, ix int) bool {
	return g.Mask == nil || g.Mask.Get(iy, ix) != 0
}

// anyValid reports whether at least one spatial cell is valid.
func (g *Grid) anyValid() bool {
	if g.Mask == nil {
		return true
	}
	for _, v := range g.Mask.Elements {
		if v != 0 {
			return true
		}
	}
	return false
}

// spatialSlices splits an array into 2-D views over its spatial axes,
// one view per combination of leading-axis indices. The views share the
// array's backing storage, so writes through them are writes to a.
func spatialSlices(a *sparse.DenseArray) []*sparse.DenseArray {
	n := len(a.Shape)
	ny, nx := a.Shape[n-2], a.Shape[n-1]
	stride := ny * nx
	out := make([]*sparse.DenseArray, len(a.Elements)/stride)
	for k := range out {
		s := sparse.ZerosDense(ny, nx)
		s.Elements = a.Elements[k*stride : (k+1)*stride]
		out[k] = s
	}
	return out
}

// markInvalid records cell (iy, ix) of slice s as holding no usable
// value: NaN in the data so the number can never be mistaken for a
// result, and zero in the mask. The writes go through Elements because
// sparse's Set drops zero values.
func markInvalid(s *sparse.DenseArray, mask *sparse.DenseArrayInt, iy, ix int) {
	s.Elements[s.Index1d(iy, ix)] = math.NaN()
	mask.Elements[mask.Index1d(iy, ix)] = 0
}

// fullMask returns a spatial mask with every cell valid.
func fullMask(ny, nx int) *sparse.DenseArrayInt {
	m := sparse.ZerosDenseInt(ny, nx)
	for i := range m.Elements {
		m.Elements[i] = 1
	}
	return m
}
