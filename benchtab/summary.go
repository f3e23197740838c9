// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"github.com/aclements/go-moremath/stats"
)

// A Summary describes the distribution of one metric for one
// algorithm across the table's rows.
type Summary struct {
	N      int // values observed; rows with missing data are excluded
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// Defined reports whether the summary has any data behind it.
func (s Summary) Defined() bool {
	return s.N > 0
}

// RatioSummary summarizes the compression-ratio distribution of one
// algorithm.
func (t *Table) RatioSummary(alg string) Summary {
	return summarize(t.Ratios(alg))
}

// ThroughputSummary summarizes the compression-throughput
// distribution of one algorithm, in gigabits per second.
func (t *Table) ThroughputSummary(alg string) Summary {
	return summarize(t.Throughputs(alg))
}

func summarize(vals []float64) Summary {
	if len(vals) == 0 {
		return Summary{}
	}
	sample := stats.Sample{Xs: vals}
	min, max := stats.Bounds(vals)
	return Summary{
		N:      len(vals),
		Mean:   stats.Mean(vals),
		Median: sample.Quantile(0.5),
		Min:    min,
		Max:    max,
	}
}
