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

// Command gridsmooth is a command-line interface for inspecting and
// validating GridSmooth smoothing configurations.
package main

import (
	"fmt"
	"os"

	"github.com/gridsmooth/gridsmooth/gridsmoothutil"
)

func main() {
	if err := gridsmoothutil.Root.Execute(); err != nil {
		fmt.Println(err)
		// Usage and configuration problems exit with status 2.
		os.Exit(2)
	}
}
