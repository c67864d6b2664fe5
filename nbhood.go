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
	"sort"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/stat"
)

// SumOrFraction selects whether probability aggregation normalizes the
// weighted sum by the total valid weight.
type SumOrFraction string

// The probability aggregation modes.
const (
	Fraction SumOrFraction = "fraction"
	Sum      SumOrFraction = "sum"
)

// A reducer folds the valid neighbour contributions of one output cell
// into one value per output field. One reducer is selected at call time
// and reused for every cell.
type reducer interface {
	reset()
	add(value, weight float64)
	// reduce returns the per-field results, or false when the
	// footprint held no valid contribution.
	reduce() ([]float64, bool)
}

// weightedReducer computes Σ(w·v), optionally normalized by Σw.
type weightedReducer struct {
	fraction  bool
	sum, wsum float64
	out       [1]float64
}

func (r *weightedReducer) reset() { r.sum, r.wsum = 0, 0 }

func (r *weightedReducer) add(v, w float64) {
	r.sum += w * v
	r.wsum += w
}

func (r *weightedReducer) reduce() ([]float64, bool) {
	if r.wsum == 0 {
		return nil, false
	}
	if r.fraction {
		r.out[0] = r.sum / r.wsum
	} else {
		r.out[0] = r.sum
	}
	return r.out[:], true
}

// orderStatReducer collects the footprint's valid values and returns
// linear-interpolated order statistics. Each value counts once; the
// footprint must be flat.
type orderStatReducer struct {
	percentiles []float64
	vals        []float64
	out         []float64
}

func (r *orderStatReducer) reset() { r.vals = r.vals[:0] }

func (r *orderStatReducer) add(v, _ float64) { r.vals = append(r.vals, v) }

func (r *orderStatReducer) reduce() ([]float64, bool) {
	if len(r.vals) == 0 {
		return nil, false
	}
	sort.Float64s(r.vals)
	for i, p := range r.percentiles {
		r.out[i] = stat.Quantile(p/100, stat.LinInterp, r.vals, nil)
	}
	return r.out, true
}

// AggregateProbabilities replaces each cell with the kernel-weighted
// statistic of the valid cells in its footprint: the weighted mean when
// mode is Fraction, or the unnormalized weighted sum when mode is Sum.
// Cells whose entire footprint is invalid come out invalid. When reMask
// is set, cells invalid in the input mask are also forced back to
// invalid in the output, even when their footprints held valid
// neighbours.
//
// Near the grid boundary only the in-bounds portion of the footprint
// contributes; the normalisation denominator shrinks accordingly.
func AggregateProbabilities(g *Grid, k *Kernel, mode SumOrFraction, reMask bool) (*Grid, error) {
	if mode != Fraction && mode != Sum {
		return nil, configErrorf("gridsmooth: unknown aggregation mode %q", mode)
	}
	red := &weightedReducer{fraction: mode == Fraction}
	outs, err := aggregate(g, k, red, 1, reMask)
	if err != nil {
		return nil, err
	}
	return outs[0], nil
}

// AggregatePercentiles replaces each cell with order statistics of the
// valid values in its footprint, one output grid per requested
// percentile (0–100). Percentiles follow the linear interpolation
// convention of gonum's stat.Quantile with stat.LinInterp.
//
// Percentile aggregation is defined only for flat circular kernels;
// square or weighted kernels are a configuration error. A grid with no
// valid cells at all cannot support any percentile and is an
// insufficient-data error, while individual cells with all-invalid
// footprints simply come out invalid.
func AggregatePercentiles(g *Grid, k *Kernel, percentiles []float64, reMask bool) (map[float64]*Grid, error) {
	if k.Shape != Circular {
		return nil, configErrorf("gridsmooth: percentiles are only defined for circular neighbourhoods")
	}
	if k.Weighted {
		return nil, configErrorf("gridsmooth: percentiles are not defined for weighted neighbourhoods")
	}
	if len(percentiles) == 0 {
		return nil, configErrorf("gridsmooth: no percentiles requested")
	}
	for _, p := range percentiles {
		if p < 0 || p > 100 {
			return nil, configErrorf("gridsmooth: percentile %g is outside [0, 100]", p)
		}
	}
	if !g.anyValid() {
		return nil, insufficientDataErrorf("gridsmooth: no valid cells to compute percentiles from")
	}
	red := &orderStatReducer{
		percentiles: percentiles,
		out:         make([]float64, len(percentiles)),
	}
	outs, err := aggregate(g, k, red, len(percentiles), reMask)
	if err != nil {
		return nil, err
	}
	result := make(map[float64]*Grid, len(percentiles))
	for i, p := range percentiles {
		result[p] = outs[i]
	}
	return result, nil
}

// aggregate runs the reducer over every cell of every spatial slice.
// Invalid cells never contribute to their neighbours; the footprint is
// truncated at the grid boundary, never wrapped or padded.
func aggregate(g *Grid, k *Kernel, red reducer, nout int, reMask bool) ([]*Grid, error) {
	ny, nx := g.SpatialShape()
	if 2*k.R+1 > ny && 2*k.R+1 > nx {
		return nil, insufficientDataErrorf(
			"gridsmooth: footprint of %d cells does not fit a %d×%d grid",
			2*k.R+1, ny, nx)
	}

	outs := make([]*Grid, nout)
	outSlices := make([][]*sparse.DenseArray, nout)
	for i := range outs {
		outs[i] = &Grid{
			Data: sparse.ZerosDense(g.Data.Shape...),
			Mask: fullMask(ny, nx),
			Dx:   g.Dx,
			Dy:   g.Dy,
		}
		outSlices[i] = spatialSlices(outs[i].Data)
	}

	for si, in := range spatialSlices(g.Data) {
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nx; ix++ {
				red.reset()
				for dy := -k.R; dy <= k.R; dy++ {
					jy := iy + dy
					if jy < 0 || jy >= ny {
						continue
					}
					for dx := -k.R; dx <= k.R; dx++ {
						jx := ix + dx
						if jx < 0 || jx >= nx {
							continue
						}
						w := k.Weights.Get(dy+k.R, dx+k.R)
						if w == 0 || !g.valid(jy, jx) {
							continue
						}
						red.add(in.Get(jy, jx), w)
					}
				}
				vals, ok := red.reduce()
				if !ok || (reMask && !g.valid(iy, ix)) {
					for i := range outs {
						markInvalid(outSlices[i][si], outs[i].Mask, iy, ix)
					}
					continue
				}
				for i := range outs {
					// Direct write: sparse's Set drops zero values, and
					// zero is a legitimate statistic here.
					s := outSlices[i][si]
					s.Elements[s.Index1d(iy, ix)] = vals[i]
				}
			}
		}
	}
	return outs, nil
}
