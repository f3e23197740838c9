// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vitemap/vitebench/benchreport"
)

// buildTable parses data and builds a table, in the way the pipeline
// does.
func buildTable(t *testing.T, data string) *Table {
	t.Helper()
	b := NewBuilder()
	if err := b.AddReader(benchreport.NewReader(strings.NewReader(data), "test")); err != nil {
		t.Fatal("parsing failed: ", err)
	}
	return b.ToTable()
}

const twoSections = `File: a.txt
initial, 1000000000
snappy, 50 (2.0), 8.0 ± 0.1, 0.5 ± 0.05
zstd, 40 (2.5), 4.0 ± 0.2, 0.6 ± 0.1
vitemap, 30 (3.33), 2.0 ± 0.05, 0.4 ± 0.02
File: b.txt
initial, 2000000000
zstd, 80 (4.0), 8.0 ± 0.2, 1.2 ± 0.1
vitemap, 60 (5.0), 4.0 ± 0.05, 0.8 ± 0.02
`

func TestBuilder(t *testing.T) {
	tab := buildTable(t, twoSections)
	if len(tab.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(tab.Rows))
	}
	if tab.Rows[0].File != "a.txt" || tab.Rows[1].File != "b.txt" {
		t.Errorf("rows out of order: %q, %q", tab.Rows[0].File, tab.Rows[1].File)
	}
	// The second section has only two algorithms.
	if len(tab.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(tab.Warnings))
	}
	if tab.Warnings[0].File != "b.txt" {
		t.Errorf("warning names %q, want b.txt", tab.Warnings[0].File)
	}
}

func TestDistributions(t *testing.T) {
	tab := buildTable(t, twoSections)

	// Snappy is missing from b.txt, so its distributions are
	// shorter than zstd's.
	if got, want := tab.Ratios(benchreport.AlgSnappy), []float64{2.0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ratios(snappy) = %v, want %v", got, want)
	}
	if got, want := tab.Ratios(benchreport.AlgZstd), []float64{2.5, 4.0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ratios(zstd) = %v, want %v", got, want)
	}

	// 1e9 B / 8 s and 2e9 B / 8 s.
	if got, want := tab.Throughputs(benchreport.AlgSnappy), []float64{1.0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Throughputs(snappy) = %v, want %v", got, want)
	}
	if got, want := tab.Throughputs(benchreport.AlgZstd), []float64{2.0, 2.0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Throughputs(zstd) = %v, want %v", got, want)
	}
	if got, want := tab.Throughputs(benchreport.AlgVitemap), []float64{4.0, 4.0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Throughputs(vitemap) = %v, want %v", got, want)
	}
}

func TestZeroTimeExcluded(t *testing.T) {
	tab := buildTable(t, `File: z.txt
initial, 100
snappy, 50 (2.0), 0 ± 0, 0.5 ± 0.05
zstd, 40 (2.5), 1.0 ± 0.2, 0.6 ± 0.1
vitemap, 30 (3.33), 0.8 ± 0.05, 0.4 ± 0.02
`)
	if got := tab.Throughputs(benchreport.AlgSnappy); len(got) != 0 {
		t.Errorf("Throughputs(snappy) = %v, want none for zero time", got)
	}
	// The ratio is still real data.
	if got, want := tab.Ratios(benchreport.AlgSnappy), []float64{2.0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ratios(snappy) = %v, want %v", got, want)
	}
}

func TestToCSV(t *testing.T) {
	tab := buildTable(t, twoSections)
	var sb strings.Builder
	if err := tab.ToCSV(&sb); err != nil {
		t.Fatal(err)
	}
	want := `file_name,initial_size,snappy_ratio,snappy_comp_time,snappy_decomp_time,zstd_ratio,zstd_comp_time,zstd_decomp_time,vitemap_ratio,vitemap_comp_time,vitemap_decomp_time
a.txt,1000000000,2,8,0.5,2.5,4,0.6,3.33,2,0.4
b.txt,2000000000,,,,4,8,1.2,5,4,0.8
`
	if sb.String() != want {
		t.Errorf("ToCSV:\ngot:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestEmptyTable(t *testing.T) {
	tab := buildTable(t, "nothing to see\n")
	if len(tab.Rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(tab.Rows))
	}
	for _, alg := range benchreport.Algorithms {
		if v := tab.Ratios(alg); len(v) != 0 {
			t.Errorf("Ratios(%s) = %v, want none", alg, v)
		}
		if v := tab.Throughputs(alg); len(v) != 0 {
			t.Errorf("Throughputs(%s) = %v, want none", alg, v)
		}
	}
}
