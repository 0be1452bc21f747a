// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import "strings"

// Column identifies one of the four table columns.
type Column int

const (
	ColumnSerial Column = iota
	ColumnTest
	ColumnResult
	ColumnSpecification
)

func (c Column) String() string {
	switch c {
	case ColumnSerial:
		return "serial"
	case ColumnTest:
		return "test"
	case ColumnResult:
		return "result"
	case ColumnSpecification:
		return "specification"
	}
	return "unknown"
}

// Coarse x ranges used to sample data rows under a split header.
const (
	sampleTestMinX   = 60
	sampleResultMinX = 180
	sampleSpecMinX   = 320

	// rows after a split header that may be sampled
	sampleWindow = 9
)

// ColumnCuts are the three boundaries between adjacent columns.
type ColumnCuts [3]float64

// CutsFromLayout places each boundary midway between two column origins.
func CutsFromLayout(l ColumnLayout) ColumnCuts {
	return ColumnCuts{
		(l.Serial + l.Test) / 2,
		(l.Test + l.Result) / 2,
		(l.Result + l.Spec) / 2,
	}
}

// Classify maps an x coordinate to the first column whose cut is at
// or right of x. Every x maps to exactly one column.
func (c ColumnCuts) Classify(x float64) Column {
	for i, cut := range c {
		if x <= cut {
			return Column(i)
		}
	}
	return ColumnSpecification
}

// Buckets holds the cell texts of one row split by column.
type Buckets [4][]string

// Joined returns the texts of column col joined by spaces.
func (b Buckets) Joined(col Column) string {
	return strings.TrimSpace(strings.Join(b[col], " "))
}

// Partition splits the non-empty cells of r across the columns.
func (c ColumnCuts) Partition(r Row) Buckets {
	var b Buckets
	for _, cell := range r.Cells {
		t := strings.TrimSpace(cell.Text)
		if t == "" {
			continue
		}
		col := c.Classify(cell.X)
		b[col] = append(b[col], t)
	}
	return b
}

// refineCuts adjusts cuts for a split header, whose first-cell origins
// are often poor column anchors. Up to maxRows data rows from the rows
// following the header are sampled; the first x seen in each coarse
// range anchors that column. A cut moves only when both of its
// neighbouring columns were observed.
func refineCuts(cuts ColumnCuts, rows []Row, header int, maxRows int, footer func(string) bool) ColumnCuts {
	var (
		seen    [4]bool
		anchors [4]float64
		sampled int
	)
	end := header + 1 + sampleWindow
	if end > len(rows) {
		end = len(rows)
	}
	for i := header + 1; i < end && sampled < maxRows; i++ {
		text := rows[i].Text()
		if text == "" || footer(text) {
			continue
		}
		sampled++
		for _, cell := range rows[i].Cells {
			col := coarseColumn(cell.X)
			if !seen[col] {
				seen[col] = true
				anchors[col] = cell.X
			}
		}
	}

	out := cuts
	for i := 0; i < 3; i++ {
		if seen[i] && seen[i+1] {
			out[i] = (anchors[i] + anchors[i+1]) / 2
		}
	}
	return out
}

func coarseColumn(x float64) Column {
	switch {
	case x < sampleTestMinX:
		return ColumnSerial
	case x < sampleResultMinX:
		return ColumnTest
	case x < sampleSpecMinX:
		return ColumnResult
	}
	return ColumnSpecification
}
