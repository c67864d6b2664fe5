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

// Package gridsmooth spatially smooths gridded forecast fields.
//
// The package provides two cooperating engines: a neighbourhood
// aggregator that replaces every grid cell with a statistic (weighted
// mean or percentiles) over a local kernel footprint, and a recursive
// filter that approximates Gaussian smoothing with repeated directional
// first-order passes. Both operate on in-memory grids with an optional
// validity mask and are pure transforms: grid and parameters in, grid
// out. File handling, coordinate systems, and run orchestration belong
// to the caller.
package gridsmooth

// Version gives the version of this software.
const Version = "1.0.0"
