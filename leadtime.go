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

// RadiusSpec is a neighbourhood radius that is either constant or a
// function of forecast lead time. Use ScalarRadius or RadiusTable to
// create one.
type RadiusSpec struct {
	radius    float64
	radii     []float64
	leadTimes []float64
	table     bool
}

// ScalarRadius specifies a radius that is the same for all lead times.
func ScalarRadius(radius float64) RadiusSpec {
	return RadiusSpec{radius: radius}
}

// RadiusTable specifies a radius that varies with lead time by linear
// interpolation over the (leadTimes, radii) pairs. The two lists must
// have equal length and leadTimes must be strictly increasing.
func RadiusTable(radii, leadTimes []float64) (RadiusSpec, error) {
	if len(radii) == 0 {
		return RadiusSpec{}, configErrorf("gridsmooth: radius table is empty")
	}
	if len(radii) != len(leadTimes) {
		return RadiusSpec{}, configErrorf(
			"gridsmooth: radius table has %d radii but %d lead times",
			len(radii), len(leadTimes))
	}
	for i := 1; i < len(leadTimes); i++ {
		if leadTimes[i] <= leadTimes[i-1] {
			return RadiusSpec{}, configErrorf(
				"gridsmooth: lead times must be strictly increasing; got %g after %g",
				leadTimes[i], leadTimes[i-1])
		}
	}
	return RadiusSpec{radii: radii, leadTimes: leadTimes, table: true}, nil
}

// Resolve returns the radius to use at the given lead time. Queries
// outside the table's span clamp to the nearest endpoint; the table is
// never extrapolated.
func (s RadiusSpec) Resolve(leadTimeHours float64) float64 {
	if !s.table {
		return s.radius
	}
	n := len(s.leadTimes)
	if leadTimeHours <= s.leadTimes[0] {
		return s.radii[0]
	}
	if leadTimeHours >= s.leadTimes[n-1] {
		return s.radii[n-1]
	}
	i := 1
	for s.leadTimes[i] < leadTimeHours {
		i++
	}
	t0, t1 := s.leadTimes[i-1], s.leadTimes[i]
	r0, r1 := s.radii[i-1], s.radii[i]
	return r0 + (r1-r0)*(leadTimeHours-t0)/(t1-t0)
}
