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

// Command csvsql is a demo harness for the engine package: it scans a
// CSV file against a column spec given on the command line, runs the
// rows through an optional LIMIT/OFFSET, and writes the result in the
// engine's textual row format. There is no SQL front end here -- this
// module's scope is the physical execution core a planner feeds, not
// a lexer/parser/optimiser (see spec.md's Non-goals) -- so the "query"
// is just the scan/limit pipeline these flags describe.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/csvsqldb/csvsqldb/block"
	"github.com/csvsqldb/csvsqldb/catalog"
	"github.com/csvsqldb/csvsqldb/csvsource"
	"github.com/csvsqldb/csvsqldb/engine"
	"github.com/csvsqldb/csvsqldb/operator"
	"github.com/csvsqldb/csvsqldb/producer"
	"github.com/csvsqldb/csvsqldb/value"
)

func main() {
	var (
		table   = flag.String("table", "T", "table name reported in EXPLAIN/trace output")
		columns = flag.String("columns", "", "comma-separated name:type pairs, e.g. id:int,name:string,salary:real")
		header  = flag.Bool("header", false, "skip the input file's first record as a header")
		limit   = flag.Int64("limit", 0, "stop after this many rows (0 means unbounded)")
		offset  = flag.Int64("offset", 0, "skip this many rows before emitting any")
		explain = flag.Bool("explain", false, "print the operator tree instead of running it")
		outHdr  = flag.Bool("with-header", false, "print a '#col,col,...' header line before the rows")
	)
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 || *columns == "" {
		fmt.Fprintln(os.Stderr, "usage: csvsql -columns name:type[,name:type...] [flags] <file.csv>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cols, err := parseColumns(*columns)
	if err != nil {
		fmt.Fprintln(os.Stderr, "csvsql:", err)
		os.Exit(1)
	}

	tbl := &catalog.Table{Name: *table, Columns: cols}
	cat := catalog.New()
	if err := cat.AddTable(tbl); err != nil {
		fmt.Fprintln(os.Stderr, "csvsql:", err)
		os.Exit(1)
	}

	eng := engine.New(engine.DefaultConfig(), cat, nil)
	exec := eng.NewExecution()

	read := csvsource.Open(args[0], csvsource.Table{Table: tbl, HasHeader: *header})
	p := producer.New(exec.Context.Manager, read)
	p.Start()
	defer p.Close()

	var root operator.Operator = exec.Factory.Scan(*table, schemaOf(*table, cols), p)
	if *limit > 0 || *offset > 0 {
		n := *limit
		if n == 0 {
			n = math.MaxInt64
		}
		lim := exec.Factory.Limit(n, *offset)
		if _, err := lim.Connect(root); err != nil {
			fmt.Fprintln(os.Stderr, "csvsql:", err)
			os.Exit(1)
		}
		root = lim
	}

	out := exec.Factory.OutputRow(os.Stdout, *outHdr)
	if _, err := out.Connect(root); err != nil {
		fmt.Fprintln(os.Stderr, "csvsql:", err)
		os.Exit(1)
	}

	if *explain {
		out.Dump(os.Stdout, 0)
		return
	}

	n, err := engine.Run(out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "csvsql:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d rows\n", n)
}

func parseColumns(spec string) ([]catalog.Column, error) {
	parts := strings.Split(spec, ",")
	cols := make([]catalog.Column, 0, len(parts))
	for _, p := range parts {
		nameType := strings.SplitN(p, ":", 2)
		if len(nameType) != 2 {
			return nil, fmt.Errorf("bad column spec %q: want name:type", p)
		}
		kind, err := parseKind(nameType[1])
		if err != nil {
			return nil, err
		}
		cols = append(cols, catalog.Column{Name: nameType[0], Type: kind})
	}
	return cols, nil
}

func parseKind(s string) (value.Kind, error) {
	switch strings.ToLower(s) {
	case "bool", "boolean":
		return value.Bool, nil
	case "int", "integer":
		return value.Int, nil
	case "real", "float", "double":
		return value.Real, nil
	case "string", "varchar", "text":
		return value.String, nil
	case "date":
		return value.Date, nil
	case "time":
		return value.Time, nil
	case "timestamp":
		return value.Timestamp, nil
	default:
		return value.None, fmt.Errorf("unknown column type %q", s)
	}
}

func schemaOf(table string, cols []catalog.Column) block.Schema {
	schema := make(block.Schema, len(cols))
	for i, c := range cols {
		schema[i] = block.SymbolInfo{Name: c.Name, QualifiedName: table + "." + c.Name, Type: c.Type, SourceTable: table}
	}
	return schema
}
