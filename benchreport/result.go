// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

// The fixed set of algorithms every benchmark section is expected to
// report: the fast baseline, the general-purpose compressor, and
// vitemap itself.
const (
	AlgSnappy  = "snappy"
	AlgZstd    = "zstd"
	AlgVitemap = "vitemap"
)

// Algorithms lists the expected algorithm names in display order.
var Algorithms = []string{AlgSnappy, AlgZstd, AlgVitemap}

// Metrics holds one algorithm's measurements within a file section.
// Times are means over the benchmark's iterations; the confidence
// margins printed next to them in the report are not retained.
type Metrics struct {
	CompressedSize int64
	Ratio          float64 // initial size / compressed size, as reported
	CompTime       float64 // mean compression time, seconds
	DecompTime     float64 // mean decompression time, seconds
}

// A Row is the normalized result of one file section. Every expected
// algorithm has a field; a nil field means the section contained no
// measurement for that algorithm. This is the row type of the result
// table, so downstream consumers only ever handle the fixed column
// set plus nil checks.
type Row struct {
	// File is the benchmarked input file as labeled in the report.
	File string

	// InitialSize is the uncompressed size of File in bytes.
	InitialSize int64

	Snappy  *Metrics
	Zstd    *Metrics
	Vitemap *Metrics

	label string
	line  int
}

// Pos returns the reader's diagnostic label and the 1-based line of
// the section header this row was parsed from.
func (r *Row) Pos() (label string, line int) {
	return r.label, r.line
}

// Metric returns the metrics for the named algorithm, or nil if the
// row has no data for it. Names outside the expected set return nil.
func (r *Row) Metric(name string) *Metrics {
	switch name {
	case AlgSnappy:
		return r.Snappy
	case AlgZstd:
		return r.Zstd
	case AlgVitemap:
		return r.Vitemap
	}
	return nil
}

// SetMetric installs m in the field for the named algorithm and
// reports whether the name was recognized.
func (r *Row) SetMetric(name string, m *Metrics) bool {
	switch name {
	case AlgSnappy:
		r.Snappy = m
	case AlgZstd:
		r.Zstd = m
	case AlgVitemap:
		r.Vitemap = m
	default:
		return false
	}
	return true
}

// Throughput returns the compression throughput of the named
// algorithm for this row, in gigabits per second:
//
//	InitialSize bytes * 8 / CompTime seconds / 1e9
//
// ok is false when the row has no data for the algorithm or the
// recorded mean time is zero; such rows contribute no data point to
// the algorithm's throughput distribution.
func (r *Row) Throughput(name string) (gbps float64, ok bool) {
	m := r.Metric(name)
	if m == nil || m.CompTime == 0 {
		return 0, false
	}
	return float64(r.InitialSize) * 8 / m.CompTime / 1e9, true
}
