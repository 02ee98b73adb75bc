/*
Copyright © 2019 the AquaCrop-Go authors.
This file is part of AquaCrop-Go.

AquaCrop-Go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

AquaCrop-Go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with AquaCrop-Go.  If not, see <http://www.gnu.org/licenses/>.
*/


// Command aquacrop is a command-line interface for the AquaCrop-Go
// soil water balance and crop growth model.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spatialmodel/aquacrop/aquacroputil"
)

func main() {
	// Variables in a .env file in the working directory become
	// AQUACROP_* configuration. The file is optional.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Println(err)
	}

	if err := aquacroputil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
