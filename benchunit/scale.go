// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit provides human-readable formatting for derived
// benchmark quantities.
package benchunit

import "strconv"

// FormatGbps formats a throughput value in gigabits per second for an
// axis tick label. Values below one gigabit per second produce an
// empty label so the dense minor ticks of a log-scaled axis stay
// unlabeled; larger values get fewer digits as the magnitude grows.
func FormatGbps(v float64) string {
	if v < 1 {
		return ""
	}
	prec := 1
	if v >= 10 {
		prec = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// FormatBytes formats a byte count with a binary (IEC) prefix,
// showing one digit after the decimal point for small scaled values.
// It is used for reporting input-file sizes in summaries.
func FormatBytes(n int64) string {
	v := float64(n)
	for _, prefix := range []string{"", "Ki", "Mi", "Gi", "Ti"} {
		if v < 1024 || prefix == "Ti" {
			prec := 0
			if prefix != "" && v < 10 {
				prec = 1
			}
			return strconv.FormatFloat(v, 'f', prec, 64) + prefix + "B"
		}
		v /= 1024
	}
	panic("unreachable")
}
