// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"regexp"
	"sort"
	"strings"
)

var (
	serialMarkerRe = regexp.MustCompile(`s\.?\s*no\.?`)
	serialStripRe  = regexp.MustCompile(`[\s.]`)
)

// Default column origins used when a header cell cannot be isolated.
const (
	defaultSerialX = 0
	defaultTestX   = 120
	defaultResultX = 320
	defaultSpecX   = 450
)

// ColumnLayout holds the left x of each table column.
type ColumnLayout struct {
	Serial, Test, Result, Spec float64
}

// DefaultLayout is the layout assumed for a header row whose marker
// cells cannot be told apart.
var DefaultLayout = ColumnLayout{defaultSerialX, defaultTestX, defaultResultX, defaultSpecX}

// HeaderLocation is where the results table header was found.
type HeaderLocation struct {
	Start   int // first header row
	Index   int // last header row; data rows follow it
	Split   bool
	Columns ColumnLayout
}

// rowKey is the lowercased, whitespace-collapsed text of a row.
func rowKey(r Row) string {
	return strings.ToLower(collapse(r.Text()))
}

type headerMarks struct {
	serial, test, result, spec bool
}

func markRow(r Row) headerMarks {
	t := rowKey(r)
	return headerMarks{
		serial: serialMarkerRe.MatchString(t),
		test:   strings.Contains(t, "test"),
		result: strings.Contains(t, "result"),
		spec:   strings.Contains(t, "spec"),
	}
}

func (m headerMarks) all() bool {
	return m.serial && m.test && m.result && m.spec
}

func (m headerMarks) serialOnly() bool {
	return m.serial && !m.test && !m.result && !m.spec
}

// LocateHeader finds the first results table header in rows. A header
// is either one row naming all four columns, or four consecutive rows
// naming serial, test, result and specification in turn.
func LocateHeader(rows []Row) (HeaderLocation, bool) {
	for i, r := range rows {
		m := markRow(r)
		if m.all() {
			return HeaderLocation{Start: i, Index: i, Columns: singleRowLayout(r)}, true
		}
		if m.serialOnly() && isSplitHeaderAt(rows, i) {
			return HeaderLocation{
				Start: i,
				Index: i + 3,
				Split: true,
				Columns: ColumnLayout{
					Serial: rows[i].Cells[0].X,
					Test:   rows[i+1].Cells[0].X,
					Result: rows[i+2].Cells[0].X,
					Spec:   rows[i+3].Cells[0].X,
				},
			}, true
		}
	}
	return HeaderLocation{}, false
}

// isSplitHeaderAt reports whether rows[i:i+4] form a split header.
func isSplitHeaderAt(rows []Row, i int) bool {
	if i+3 >= len(rows) {
		return false
	}
	if !markRow(rows[i]).serial {
		return false
	}
	return markRow(rows[i+1]).test && markRow(rows[i+2]).result && markRow(rows[i+3]).spec
}

// headerSpan returns how many rows starting at rows[i] repeat a table
// header, or 0 when rows[i] does not start one.
func headerSpan(rows []Row, i int) int {
	m := markRow(rows[i])
	switch {
	case m.all():
		return 1
	case m.serialOnly() && isSplitHeaderAt(rows, i):
		return 4
	}
	return 0
}

func singleRowLayout(r Row) ColumnLayout {
	cells := append([]Cell(nil), r.Cells...)
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].X < cells[j].X })

	l := DefaultLayout
	for _, c := range cells {
		t := strings.ToLower(c.Text)
		switch {
		case strings.Contains(serialStripRe.ReplaceAllString(t, ""), "sno") || serialMarkerRe.MatchString(t):
			l.Serial = c.X
		case strings.Contains(t, "test"):
			l.Test = c.X
		case strings.Contains(t, "result"):
			l.Result = c.X
		case strings.Contains(t, "spec"):
			l.Spec = c.X
		}
	}
	return l
}
