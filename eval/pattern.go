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

package eval

import (
	"regexp"
	"strings"
)

// Pattern is a compiled SQL LIKE pattern: '%' matches any run of
// characters, '_' matches exactly one, everything else is literal.
// Compiling once and sharing the *Pattern across every row a LIKE
// instruction evaluates is the point -- regexp.Compile is too costly
// to repeat per row.
type Pattern struct {
	re *regexp.Regexp
}

// CompilePattern translates a LIKE pattern into a Pattern.
func CompilePattern(pattern string) (*Pattern, error) {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err
	}
	return &Pattern{re: re}, nil
}

// MatchString reports whether s satisfies the pattern.
func (p *Pattern) MatchString(s string) bool { return p.re.MatchString(s) }
