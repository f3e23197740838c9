// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchdb stores benchmark runs in a local SQLite database so
// results can be compared across runs.
package benchdb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vitemap/vitebench/benchreport"
	"github.com/vitemap/vitebench/benchtab"
)

// DB is a handle to a benchmark-history database.
type DB struct {
	sql *sql.DB
	// prepared statements
	insertRun  *sql.Stmt
	insertCell *sql.Stmt
}

// A Run identifies one stored benchmark run.
type Run struct {
	ID    int64
	Start time.Time
}

const createStmts = `
CREATE TABLE IF NOT EXISTS Runs (
	RunID INTEGER PRIMARY KEY AUTOINCREMENT,
	StartTime TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS Cells (
	RunID INTEGER NOT NULL,
	FileName TEXT NOT NULL,
	InitialSize INTEGER NOT NULL,
	Algorithm TEXT NOT NULL,
	CompressedSize INTEGER NOT NULL,
	Ratio REAL NOT NULL,
	CompTime REAL NOT NULL,
	DecompTime REAL NOT NULL,
	PRIMARY KEY (RunID, FileName, Algorithm),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON DELETE CASCADE
);
`

// Open opens (creating it if necessary) the history database at path.
// The path ":memory:" gives a transient in-memory database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	d := &DB{sql: db}
	if err := d.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (db *DB) createTables() error {
	for _, q := range strings.Split(createStmts, ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(StartTime) VALUES (?)")
	if err != nil {
		return err
	}
	db.insertCell, err = db.sql.Prepare(
		"INSERT INTO Cells(RunID, FileName, InitialSize, Algorithm, CompressedSize, Ratio, CompTime, DecompTime) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	return err
}

// InsertRun stores every populated cell of t as one run starting at
// start, and returns the new run's ID.
func (db *DB) InsertRun(start time.Time, t *benchtab.Table) (int64, error) {
	tx, err := db.sql.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Stmt(db.insertRun).Exec(start)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	insert := tx.Stmt(db.insertCell)
	for _, row := range t.Rows {
		for _, alg := range benchreport.Algorithms {
			m := row.Metric(alg)
			if m == nil {
				continue
			}
			_, err := insert.Exec(runID, row.File, row.InitialSize, alg,
				m.CompressedSize, m.Ratio, m.CompTime, m.DecompTime)
			if err != nil {
				return 0, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// Runs lists the stored runs, oldest first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.sql.Query("SELECT RunID, StartTime FROM Runs ORDER BY RunID")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Start); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Rows reloads the table rows stored for one run, in the order they
// were inserted.
func (db *DB) Rows(runID int64) ([]*benchreport.Row, error) {
	rows, err := db.sql.Query(
		"SELECT FileName, InitialSize, Algorithm, CompressedSize, Ratio, CompTime, DecompTime FROM Cells WHERE RunID = ? ORDER BY rowid", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*benchreport.Row
	byFile := make(map[string]*benchreport.Row)
	for rows.Next() {
		var (
			file string
			size int64
			alg  string
			m    benchreport.Metrics
		)
		if err := rows.Scan(&file, &size, &alg, &m.CompressedSize, &m.Ratio, &m.CompTime, &m.DecompTime); err != nil {
			return nil, err
		}
		row := byFile[file]
		if row == nil {
			row = &benchreport.Row{File: file, InitialSize: size}
			byFile[file] = row
			out = append(out, row)
		}
		mm := m
		row.SetMetric(alg, &mm)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (db *DB) Close() error {
	return db.sql.Close()
}
