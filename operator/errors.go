// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package operator

import "errors"

// ErrNoMoreInputs is returned by Connect when called more times than
// an operator expects inputs (a leaf called at all, or a unary/binary
// operator called after it already holds every input it needs).
var ErrNoMoreInputs = errors.New("operator: no more inputs expected")

// ErrUnconnected names the not-yet-connected state. No operator in
// this package returns it: GetNextRow does not check whether Connect
// has attached every expected input.
var ErrUnconnected = errors.New("operator: not connected")
