// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchtab consolidates parsed benchmark rows into a
// schema-stable table and derives per-algorithm metric distributions
// from it.
package benchtab

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/vitemap/vitebench/benchreport"
)

// A Builder collects reader records into a Table.
type Builder struct {
	rows  []*benchreport.Row
	warns []*benchreport.SectionError
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return new(Builder)
}

// Add adds one reader record to the builder. Rows keep their arrival
// order; section warnings are retained so callers can report them or
// assert on their count.
func (b *Builder) Add(rec benchreport.Record) {
	switch rec := rec.(type) {
	case *benchreport.Row:
		b.rows = append(b.rows, rec)
	case *benchreport.SectionError:
		b.warns = append(b.warns, rec)
	}
}

// AddReader drains r into the builder and returns r's input error, if
// any.
func (b *Builder) AddReader(r *benchreport.Reader) error {
	for r.Scan() {
		b.Add(r.Result())
	}
	return r.Err()
}

// ToTable finalizes the builder into a Table.
func (b *Builder) ToTable() *Table {
	return &Table{Rows: b.rows, Warnings: b.warns}
}

// A Table is an ordered collection of benchmark rows with a fixed
// algorithm column set. Every row defines every column: an algorithm
// the report omitted for a row is a nil Metrics, never an absent key,
// so consumers iterate the fixed schema without presence checks.
type Table struct {
	Rows     []*benchreport.Row
	Warnings []*benchreport.SectionError
}

// Ratios returns the compression ratios observed for one algorithm
// across all rows, in row order, skipping rows with no data for it.
func (t *Table) Ratios(alg string) []float64 {
	var vals []float64
	for _, row := range t.Rows {
		if m := row.Metric(alg); m != nil {
			vals = append(vals, m.Ratio)
		}
	}
	return vals
}

// Throughputs returns the derived compression throughputs for one
// algorithm in gigabits per second, in row order. Rows with no data
// for the algorithm, or with a zero mean compression time, contribute
// no value.
func (t *Table) Throughputs(alg string) []float64 {
	var vals []float64
	for _, row := range t.Rows {
		if gbps, ok := row.Throughput(alg); ok {
			vals = append(vals, gbps)
		}
	}
	return vals
}

// ToCSV writes the table in CSV form: one column for the file name and
// initial size, then a ratio/comp_time/decomp_time column triple per
// algorithm. Missing cells are left empty.
func (t *Table) ToCSV(w io.Writer) error {
	o := csv.NewWriter(w)

	hdr := []string{"file_name", "initial_size"}
	for _, alg := range benchreport.Algorithms {
		hdr = append(hdr, alg+"_ratio", alg+"_comp_time", alg+"_decomp_time")
	}
	o.Write(hdr)

	for _, row := range t.Rows {
		rec := []string{row.File, strconv.FormatInt(row.InitialSize, 10)}
		for _, alg := range benchreport.Algorithms {
			m := row.Metric(alg)
			if m == nil {
				rec = append(rec, "", "", "")
				continue
			}
			rec = append(rec,
				strconv.FormatFloat(m.Ratio, 'g', -1, 64),
				strconv.FormatFloat(m.CompTime, 'g', -1, 64),
				strconv.FormatFloat(m.DecompTime, 'g', -1, 64))
		}
		o.Write(rec)
	}

	o.Flush()
	return o.Error()
}
