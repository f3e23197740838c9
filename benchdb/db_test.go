// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdb

import (
	"reflect"
	"testing"
	"time"

	"github.com/vitemap/vitebench/benchreport"
	"github.com/vitemap/vitebench/benchtab"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal("opening database: ", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testTable() *benchtab.Table {
	b := benchtab.NewBuilder()
	b.Add(&benchreport.Row{
		File:        "a.txt",
		InitialSize: 100,
		Snappy:      &benchreport.Metrics{CompressedSize: 50, Ratio: 2.0, CompTime: 1.0, DecompTime: 0.5},
		Zstd:        &benchreport.Metrics{CompressedSize: 40, Ratio: 2.5, CompTime: 1.5, DecompTime: 0.6},
		Vitemap:     &benchreport.Metrics{CompressedSize: 30, Ratio: 3.33, CompTime: 0.8, DecompTime: 0.4},
	})
	b.Add(&benchreport.Row{
		File:        "b.txt",
		InitialSize: 200,
		Zstd:        &benchreport.Metrics{CompressedSize: 40, Ratio: 5.0, CompTime: 1.5, DecompTime: 0.6},
	})
	return b.ToTable()
}

func TestInsertAndReload(t *testing.T) {
	db := openTestDB(t)
	want := testTable()

	runID, err := db.InsertRun(time.Unix(1700000000, 0), want)
	if err != nil {
		t.Fatal("inserting run: ", err)
	}

	got, err := db.Rows(runID)
	if err != nil {
		t.Fatal("reloading rows: ", err)
	}
	if !reflect.DeepEqual(got, want.Rows) {
		t.Errorf("reloaded rows do not match:\ngot:  %+v\nwant: %+v", got, want.Rows)
	}
}

func TestRuns(t *testing.T) {
	db := openTestDB(t)
	tab := testTable()

	start1 := time.Unix(1700000000, 0)
	start2 := start1.Add(time.Hour)
	id1, err := db.InsertRun(start1, tab)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := db.InsertRun(start2, tab)
	if err != nil {
		t.Fatal(err)
	}
	if id1 == id2 {
		t.Fatalf("both runs got ID %d", id1)
	}

	runs, err := db.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != id1 || runs[1].ID != id2 {
		t.Errorf("runs out of order: %v", runs)
	}
	if !runs[0].Start.Equal(start1) || !runs[1].Start.Equal(start2) {
		t.Errorf("start times do not match: %v", runs)
	}
}

func TestEmptyRun(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.InsertRun(time.Now(), benchtab.NewBuilder().ToTable())
	if err != nil {
		t.Fatal(err)
	}
	rows, err := db.Rows(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows for an empty run, want 0", len(rows))
	}
}
