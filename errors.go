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

import "fmt"

// ConfigurationError reports a semantically invalid combination of
// options, detected before any numeric work starts.
type ConfigurationError struct {
	msg string
}

func (e ConfigurationError) Error() string { return e.msg }

// NewConfigurationError creates a ConfigurationError with a formatted
// message, for callers that validate option combinations on the core's
// behalf before invoking it.
func NewConfigurationError(format string, args ...interface{}) ConfigurationError {
	return ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...interface{}) ConfigurationError {
	return NewConfigurationError(format, args...)
}

// InvalidRadiusError reports a neighbourhood radius outside its valid
// domain, typically one that rounds to less than one grid cell.
type InvalidRadiusError struct {
	Radius  float64 // requested radius in length units
	Spacing float64 // grid cell spacing in the same units
}

func (e InvalidRadiusError) Error() string {
	return fmt.Sprintf("gridsmooth: radius %g is below one grid cell (spacing %g)",
		e.Radius, e.Spacing)
}

// InvalidAlphaError reports a recursive-filter decay coefficient at or
// outside the open interval (0, 1).
type InvalidAlphaError struct {
	Value float64
}

func (e InvalidAlphaError) Error() string {
	return fmt.Sprintf("gridsmooth: alpha %g is outside the open interval (0, 1)", e.Value)
}

// ShapeMismatchError reports a mask or parameter field whose shape does
// not match the grid it is meant to index.
type ShapeMismatchError struct {
	Want, Got []int
}

func (e ShapeMismatchError) Error() string {
	return fmt.Sprintf("gridsmooth: shape %v does not match grid spatial shape %v",
		e.Got, e.Want)
}

// InsufficientDataError reports that there is not enough valid data to
// compute the requested statistic.
type InsufficientDataError struct {
	msg string
}

func (e InsufficientDataError) Error() string { return e.msg }

func insufficientDataErrorf(format string, args ...interface{}) InsufficientDataError {
	return InsufficientDataError{msg: fmt.Sprintf(format, args...)}
}
