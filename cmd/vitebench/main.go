// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Vitebench builds and runs the vitemap compression benchmark, parses
// its report, and renders a comparative chart of compression ratio
// and throughput for snappy, zstd, and vitemap.
//
// Usage:
//
//	vitebench [-C dir] [-bench path] [-i report] [-o chart.png] [-csv] [-summary] [-db file]
//
// By default vitebench runs "make all" in the current directory, then
// the freshly built benchmark binary, and parses the binary's
// standard output. If either step exits with a non-zero status, its
// standard error is printed and vitebench stops without producing a
// table or chart.
//
// With -i, the build and benchmark steps are skipped and a previously
// saved report is parsed instead ("-i -" reads standard input).
//
// Sections of the report that do not carry measurements for exactly
// the three expected algorithms are reported as warnings on standard
// error; processing continues with whatever was found.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vitemap/vitebench/benchchart"
	"github.com/vitemap/vitebench/benchdb"
	"github.com/vitemap/vitebench/benchreport"
	"github.com/vitemap/vitebench/benchtab"
	"github.com/vitemap/vitebench/benchunit"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: vitebench [options]\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	flagDir     = flag.String("C", ".", "run the build and benchmark in `dir`")
	flagBench   = flag.String("bench", "./target/benchmarking", "benchmark executable `path`, relative to -C")
	flagInput   = flag.String("i", "", "parse a saved report `file` instead of running the benchmark (\"-\" for stdin)")
	flagOut     = flag.String("o", benchchart.DefaultPath, "write the chart to `file`")
	flagCSV     = flag.Bool("csv", false, "print the result table in CSV form")
	flagSummary = flag.Bool("summary", false, "print per-algorithm distribution summaries")
	flagDB      = flag.String("db", "", "append this run to the SQLite history database at `file`")
)

func main() {
	log.SetPrefix("vitebench: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
	}

	start := time.Now()
	report, label := getReport()

	r := benchreport.NewReader(strings.NewReader(report), label)
	b := benchtab.NewBuilder()
	if err := b.AddReader(r); err != nil {
		log.Fatal(err)
	}
	tab := b.ToTable()

	for _, w := range tab.Warnings {
		log.Printf("warning: %v\nsection text:\n%s", w, w.Section)
	}
	fmt.Fprintf(os.Stderr, "parsed %d file sections\n", len(tab.Rows))

	if *flagCSV {
		if err := tab.ToCSV(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}
	if *flagSummary {
		printSummary(tab)
	}
	if *flagDB != "" {
		saveRun(start, tab)
	}

	if err := benchchart.Render(tab, *flagOut); err != nil {
		log.Fatal(err)
	}
}

// getReport obtains the raw benchmark report, either from a saved
// file or by running the build and benchmark harness.
func getReport() (report, label string) {
	switch *flagInput {
	case "":
		return runHarness(), "benchmark"
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		return string(data), "stdin"
	default:
		data, err := os.ReadFile(*flagInput)
		if err != nil {
			log.Fatal(err)
		}
		return string(data), *flagInput
	}
}

// runHarness runs "make all" followed by the benchmark binary in the
// -C directory and returns the benchmark's standard output. A
// non-zero exit from either command is fatal: the command's standard
// error is surfaced and the pipeline stops before any parsing.
func runHarness() string {
	if _, err := run(*flagDir, "make", "all"); err != nil {
		log.Fatal("build failed: ", err)
	}
	out, err := run(*flagDir, *flagBench)
	if err != nil {
		log.Fatal("benchmark failed: ", err)
	}
	return out
}

// run executes one external command in dir, returning its standard
// output. On failure the command's standard error is copied to ours
// so the diagnostic reaches the operator.
func run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Stderr.Write(stderr.Bytes())
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return stdout.String(), nil
}

// printSummary prints per-algorithm distribution summaries of ratio
// and throughput to standard output.
func printSummary(tab *benchtab.Table) {
	fmt.Printf("%-8s  %-34s  %-34s\n", "", "ratio (n mean med min max)", "Gbps (n mean med min max)")
	for _, alg := range benchreport.Algorithms {
		fmt.Printf("%-8s  %-34s  %-34s\n", alg,
			formatSummary(tab.RatioSummary(alg)),
			formatSummary(tab.ThroughputSummary(alg)))
	}
}

func formatSummary(s benchtab.Summary) string {
	if !s.Defined() {
		return "no data"
	}
	return fmt.Sprintf("%4d %6.2f %6.2f %6.2f %6.2f", s.N, s.Mean, s.Median, s.Min, s.Max)
}

// saveRun appends the run to the history database.
func saveRun(start time.Time, tab *benchtab.Table) {
	db, err := benchdb.Open(*flagDB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	id, err := db.InsertRun(start, tab)
	if err != nil {
		log.Fatal(err)
	}
	var total int64
	for _, row := range tab.Rows {
		total += row.InitialSize
	}
	fmt.Fprintf(os.Stderr, "saved run %d (%s of input)\n", id, benchunit.FormatBytes(total))
}
