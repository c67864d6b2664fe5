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

// Shape selects the neighbourhood footprint geometry.
type Shape string

// The supported neighbourhood shapes.
const (
	Square   Shape = "square"
	Circular Shape = "circular"
)

// Kernel is an immutable footprint of non-negative weights centered on
// the origin. Weights has shape (2R+1) × (2R+1); entry (R+dy, R+dx)
// holds the weight of the neighbour at offset (dy, dx).
type Kernel struct {
	Shape    Shape
	Weighted bool
	// R is the footprint radius in grid cells.
	R int

	// Weights is indexed (R+dy, R+dx).
	Weights *sparse.DenseArray
}

// BuildKernel constructs the neighbourhood footprint for the given
// shape. radius is in physical length units and is converted to grid
// cells using spacing, after scaling by ensFactor (the per-realization
// footprint adjustment for ensemble inputs; 1 means no adjustment).
//
// Square kernels weight every cell in the bounding box equally.
// Circular kernels weight cells within Euclidean distance R equally,
// or, in weighted mode, with weight 1-d/R so that contributions decay
// from center to edge. Weighted mode is only defined for circular
// shape.
func BuildKernel(shape Shape, radius, spacing float64, weighted bool, ensFactor float64) (*Kernel, error) {
	if shape != Square && shape != Circular {
		return nil, configErrorf("gridsmooth: unknown neighbourhood shape %q", shape)
	}
	if weighted && shape != Circular {
		return nil, configErrorf("gridsmooth: weighted mode is only defined for circular neighbourhoods")
	}
	if spacing <= 0 {
		return nil, configErrorf("gridsmooth: cell spacing must be positive; got %g", spacing)
	}
	if ensFactor <= 0 {
		return nil, configErrorf("gridsmooth: ens factor must be positive; got %g", ensFactor)
	}
	eff := radius * ensFactor
	r := int(math.Round(eff / spacing))
	if r < 1 {
		return nil, InvalidRadiusError{Radius: eff, Spacing: spacing}
	}

	n := 2*r + 1
	k := &Kernel{Shape: shape, Weighted: weighted, R: r, Weights: sparse.ZerosDense(n, n)}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			var w float64
			switch {
			case shape == Square:
				w = 1
			case dx*dx+dy*dy <= r*r:
				if weighted {
					d := math.Sqrt(float64(dx*dx + dy*dy))
					w = math.Max(0, 1-d/float64(r))
				} else {
					w = 1
				}
			}
			// Direct write: sparse's Set drops zero values, and
			// outside-footprint weights are zero.
			k.Weights.Elements[k.Weights.Index1d(dy+r, dx+r)] = w
		}
	}
	return k, nil
}

// Weight returns the weight of the neighbour at offset (dy, dx) from
// the footprint center. Offsets outside the footprint have weight 0.
func (k *Kernel) Weight(dy, dx int) float64 {
	if dy < -k.R || dy > k.R || dx < -k.R || dx > k.R {
		return 0
	}
	return k.Weights.Get(dy+k.R, dx+k.R)
}
