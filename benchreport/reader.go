// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchreport parses the report emitted by the vitemap
// benchmark harness into per-file rows.
//
// The report is free-form text containing zero or more file sections.
// A section starts with a header of the form
//
//	File: <name>
//	initial, <size>
//
// followed by measurement lines, one per algorithm:
//
//	<name>, <size> (<ratio>), <time> ± <margin>, <time> ± <margin>
//
// Text that matches neither pattern is ignored. A section ends where
// the next section's header begins, or at the end of the report.
package benchreport

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// headerRE matches a section header: a file label line immediately
// followed by the uncompressed-size declaration.
var headerRE = regexp.MustCompile(`File: (.*)\ninitial, (\d+)`)

// measurementRE matches one algorithm measurement line. The
// confidence margins after ± are matched but discarded.
var measurementRE = regexp.MustCompile(`(\w+), (\d+) \(([\d.]+)\), ([\d.]+) ± [\d.]+, ([\d.]+) ± [\d.]+`)

// A Reader extracts rows from a benchmark report.
//
// Its API is modeled on bufio.Scanner: call Scan to advance to the
// next record and Result to retrieve it. Section warnings are
// delivered in-band as *SectionError records, before the row for the
// affected section, so callers can count or surface them without the
// reader writing to any log itself.
//
// To construct a Reader, either call NewReader, or call Reset on a
// zeroed Reader.
type Reader struct {
	label   string
	content string
	err     error // I/O error from reading the input

	// headers is the pass-one result: every section header match in
	// order of appearance, as regexp submatch index slices. Section
	// spans are derived positionally: each section's measurements run
	// from the end of its header match to the start of the next
	// header match (or end of input).
	headers [][]int
	next    int // index into headers of the next section to parse

	q    []Record
	qPos int
}

// A Record is a single record produced by a Reader. It is either a
// *Row or a *SectionError.
type Record interface {
	// Pos returns the reader's diagnostic label and the 1-based
	// line number within the report where this record begins.
	Pos() (label string, line int)
}

var _ Record = (*Row)(nil)
var _ Record = (*SectionError)(nil)

// A SectionError reports that a file section yielded a number of
// algorithm measurements different from the expected count. It is
// advisory: the reader still emits a row for the section, with
// missing algorithms left unset.
type SectionError struct {
	Label string // reader label, diagnostic only
	Line  int    // 1-based line of the section header
	File  string // benchmarked input file named by the section
	Count int    // distinct algorithm measurements found

	// Section is the raw text of the section's measurement span,
	// kept for manual inspection of what went wrong.
	Section string
}

// Pos returns the reader's diagnostic label and the 1-based line of
// the offending section's header.
func (e *SectionError) Pos() (label string, line int) {
	return e.Label, e.Line
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s:%d: file %s has %d algorithms instead of %d", e.Label, e.Line, e.File, e.Count, len(Algorithms))
}

// NewReader constructs a reader to parse the benchmark report from r.
// label is used in warnings; it is purely diagnostic.
func NewReader(r io.Reader, label string) *Reader {
	reader := new(Reader)
	reader.Reset(r, label)
	return reader
}

// Reset resets the reader to begin reading a new report. The entire
// input is consumed immediately; section headers are located up front
// so that each section's span can be bounded by the start of the next
// header.
func (r *Reader) Reset(ior io.Reader, label string) {
	if label == "" {
		label = "<unknown>"
	}
	r.label = label
	r.next = 0
	r.qPos = 0
	r.q = r.q[:0]

	data, err := io.ReadAll(ior)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", label, err)
		return
	}
	r.err = nil
	r.content = string(data)
	r.headers = headerRE.FindAllStringSubmatchIndex(r.content, -1)
}

// Scan advances the reader to the next record and reports whether one
// was found. When Scan returns false the caller should check Err for
// an input error; a report with no sections simply yields no records.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	// Drain anything queued by an earlier section first.
	if r.qPos+1 < len(r.q) {
		r.qPos++
		return true
	}
	r.qPos = 0
	r.q = r.q[:0]

	for len(r.q) == 0 && r.next < len(r.headers) {
		r.parseSection(r.next)
		r.next++
	}
	return len(r.q) > 0
}

// Result returns the record that was just read by Scan: either a *Row
// or a *SectionError. Section errors are advisory, so the caller can
// continue to call Scan. It returns nil if Scan has not been called
// or returned false.
func (r *Reader) Result() Record {
	if r.qPos >= len(r.q) {
		return nil
	}
	return r.q[r.qPos]
}

// Err returns the I/O error encountered while reading the input, if
// any. Malformed report text is never an error.
func (r *Reader) Err() error {
	return r.err
}

// parseSection parses the i'th section into records on r.q.
func (r *Reader) parseSection(i int) {
	h := r.headers[i]
	file := r.content[h[2]:h[3]]
	size, err := strconv.ParseInt(r.content[h[4]:h[5]], 10, 64)
	if err != nil {
		// Only possible on overflow; treat the header as noise.
		return
	}

	// The section's measurements span from the end of this header
	// to the start of the next one.
	end := len(r.content)
	if i+1 < len(r.headers) {
		end = r.headers[i+1][0]
	}
	body := r.content[h[1]:end]

	// Last-wins: a repeated algorithm name overwrites the earlier
	// measurement.
	found := make(map[string]*Metrics)
	for _, g := range measurementRE.FindAllStringSubmatch(body, -1) {
		m, ok := parseMeasurement(g)
		if !ok {
			continue
		}
		found[g[1]] = m
	}

	row := &Row{
		File:        file,
		InitialSize: size,
		label:       r.label,
		line:        lineAt(r.content, h[0]),
	}
	for name, m := range found {
		// Unrecognized algorithms still count toward the section
		// check below, but have no column in the row.
		row.SetMetric(name, m)
	}

	if len(found) != len(Algorithms) {
		r.q = append(r.q, &SectionError{
			Label:   r.label,
			Line:    row.line,
			File:    file,
			Count:   len(found),
			Section: body,
		})
	}
	r.q = append(r.q, row)
}

// parseMeasurement converts one measurementRE submatch group into
// Metrics. ok is false when a numeric field does not parse (e.g. a
// stray "1.2.3" matched by the float pattern); such lines are treated
// as noise.
func parseMeasurement(g []string) (*Metrics, bool) {
	size, err := strconv.ParseInt(g[2], 10, 64)
	if err != nil {
		return nil, false
	}
	ratio, err := strconv.ParseFloat(g[3], 64)
	if err != nil {
		return nil, false
	}
	comp, err := strconv.ParseFloat(g[4], 64)
	if err != nil {
		return nil, false
	}
	decomp, err := strconv.ParseFloat(g[5], 64)
	if err != nil {
		return nil, false
	}
	return &Metrics{
		CompressedSize: size,
		Ratio:          ratio,
		CompTime:       comp,
		DecompTime:     decomp,
	}, true
}

// lineAt returns the 1-based line number of byte offset off.
func lineAt(content string, off int) int {
	return 1 + strings.Count(content[:off], "\n")
}

// ParseReport parses a complete benchmark report and returns its rows
// in section order, along with any advisory section warnings. It is a
// convenience wrapper around Reader for callers that already hold the
// whole report in memory.
func ParseReport(content string) ([]*Row, []*SectionError) {
	r := NewReader(strings.NewReader(content), "report")
	var rows []*Row
	var warns []*SectionError
	for r.Scan() {
		switch rec := r.Result().(type) {
		case *Row:
			rows = append(rows, rec)
		case *SectionError:
			warns = append(warns, rec)
		}
	}
	return rows, warns
}
