// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"fmt"

	"github.com/sassoftware/viya-coa-xtract/logger"
)

// docRow is a row tagged with the page it came from.
type docRow struct {
	page int
	row  Row
}

type assemblerState int

const (
	stateIdle assemblerState = iota
	stateAccumulating
)

// assembler folds physical rows into logical table rows. One assembler
// serves one parse and is discarded afterwards.
type assembler struct {
	cuts           ColumnCuts
	keepParentRows bool
	table          *Table

	state                      assemblerState
	serial, test, result, spec string
	footers                    []string
}

func newAssembler(cuts ColumnCuts, keepParentRows bool) *assembler {
	return &assembler{cuts: cuts, keepParentRows: keepParentRows, table: NewTable()}
}

// run assembles rows[start:], flushing the open row at every page
// boundary and at the end. Footer rows it skips are kept in a.footers.
func (a *assembler) run(rows []docRow, start int) {
	plain := make([]Row, len(rows))
	for i, r := range rows {
		plain[i] = r.row
	}

	page := -1
	for i := start; i < len(rows); i++ {
		if rows[i].page != page {
			a.flush()
			page = rows[i].page
		}

		text := rows[i].row.Text()
		if text == "" {
			continue
		}
		if IsFooter(text) {
			logger.Debug(fmt.Sprintf("Skipping footer row: page=%d text=%q", page, text))
			a.footers = append(a.footers, text)
			continue
		}
		if span := headerSpan(plain, i); span > 0 {
			logger.Debug(fmt.Sprintf("Skipping repeated table header: page=%d rows=%d", page, span))
			i += span - 1
			continue
		}
		a.feed(a.cuts.Partition(rows[i].row))
	}
	a.flush()
}

// feed applies one partitioned row to the state machine.
func (a *assembler) feed(b Buckets) {
	rawSerial := b.Joined(ColumnSerial)
	serial, spill := splitSerial(rawSerial)
	test := appendText(spill, b.Joined(ColumnTest))
	result := b.Joined(ColumnResult)
	spec := b.Joined(ColumnSpecification)

	if serial != "" {
		a.flush()
		a.serial, a.test, a.result, a.spec = serial, test, result, spec
		a.state = stateAccumulating
		return
	}

	// A continuation row. Text in the serial column that holds no serial
	// number belongs to the test name.
	if rawSerial != "" {
		test = appendText(rawSerial, test)
	}
	a.state = stateAccumulating
	if test != "" && !IsFooter(test) {
		a.test = appendText(a.test, test)
	}
	if result != "" && !IsFooter(result) {
		a.result = appendText(a.result, result)
	}
	if spec != "" && !IsFooter(spec) {
		a.spec = appendText(a.spec, spec)
	}
}

func (a *assembler) flush() {
	if a.state != stateAccumulating {
		return
	}
	row := TestRow{
		Serial:        Normalize(a.serial),
		Test:          cleanField(a.test),
		Result:        cleanField(a.result),
		Specification: cleanField(a.spec),
	}
	a.serial, a.test, a.result, a.spec = "", "", "", ""
	a.state = stateIdle

	if row == (TestRow{}) {
		return
	}
	if !a.keepParentRows && parentSerialRe.MatchString(row.Serial) && row.Result == "" && row.Specification == "" {
		logger.Debug(fmt.Sprintf("Dropping parent-only row: serial=%s", row.Serial))
		return
	}
	key := a.table.Add(row)
	logger.Debug(fmt.Sprintf("Row emitted: key=%q", key))
}

// cleanField normalizes a text field and cuts any footer tail off it.
func cleanField(s string) string {
	return Normalize(StripFooterFragments(Normalize(s)))
}
