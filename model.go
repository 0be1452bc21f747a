// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// A Glyph is one positioned character of page text.
// Y grows downward, in reading order.
type Glyph struct {
	X          float64 // left edge, in points
	Y          float64 // baseline, in points from the top of the page
	Char       string  // the UTF-8 text of the glyph
	Width      float64 // advance width, in points
	SpaceWidth float64 // width of a space in the glyph's font, in points
}

// A Cell is a run of glyphs on one line with no word gap between them.
type Cell struct {
	X    float64 // left edge of the first glyph
	Text string
}

// A Row is a line of cells ordered left to right.
type Row struct {
	Y     float64
	Cells []Cell
}

// Text joins the row's cells with single spaces.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		if t := strings.TrimSpace(c.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// A Page holds the rows of one document page, top to bottom.
type Page struct {
	Number int
	Rows   []Row
}

// TestRow is one logical row of the results table.
type TestRow struct {
	Serial        string `json:"serial"`
	Test          string `json:"test"`
	Result        string `json:"result"`
	Specification string `json:"specification"`
}

// Key returns the table key of the row before deduplication.
func (t TestRow) Key() string {
	return t.Serial + " - " + t.Test
}

// Header field labels.
const (
	FieldProductName       = "Product Name"
	FieldProductCode       = "Product Code"
	FieldBatchNo           = "B.No."
	FieldARNo              = "AR No."
	FieldSpecificationID   = "Specification ID"
	FieldBatchSize         = "Batch Size"
	FieldProtocolID        = "Protocol ID"
	FieldSTPNo             = "STP No."
	FieldMfgDate           = "Mfg Date"
	FieldExpDate           = "Exp.Date"
	FieldStorageCondition  = "Storage Condition"
	FieldSchedulePeriod    = "Schedule period"
	FieldScheduleDate      = "Schedule Date"
	FieldSampleOrientation = "Sample orientation"
	FieldPackingType       = "Packing Type"
	FieldPackSize          = "Pack Size"
	FieldRemarks           = "Remarks"
	FieldCheckedBy         = "Checked by"
	FieldApprovedBy        = "Approved by"
	FieldCheckDate         = "Check Date"
	FieldApprovalDate      = "Approval Date"
)

// KnownFields lists every label the header parser can produce.
var KnownFields = []string{
	FieldProductName, FieldProductCode, FieldBatchNo, FieldARNo,
	FieldSpecificationID, FieldBatchSize, FieldProtocolID, FieldSTPNo,
	FieldMfgDate, FieldExpDate, FieldStorageCondition, FieldSchedulePeriod,
	FieldScheduleDate, FieldSampleOrientation, FieldPackingType, FieldPackSize,
	FieldRemarks, FieldCheckedBy, FieldApprovedBy, FieldCheckDate, FieldApprovalDate,
}

// Fields is an insertion-ordered label to value map.
type Fields struct {
	keys   []string
	values map[string]string
}

func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// Set stores value under key, replacing any earlier value.
func (f *Fields) Set(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// SetIfAbsent stores value only when key has no value yet.
// It reports whether the value was stored.
func (f *Fields) SetIfAbsent(key, value string) bool {
	if _, ok := f.values[key]; ok {
		return false
	}
	f.Set(key, value)
	return true
}

func (f *Fields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *Fields) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Keys returns the labels in insertion order.
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

func (f *Fields) Len() int { return len(f.keys) }

// MarshalJSON writes the fields as an object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table is the ordered collection of test rows. Keys are unique:
// a repeated "serial - test" key gets a " #2", " #3", ... suffix.
type Table struct {
	keys  []string
	rows  []TestRow
	index map[string]int
}

func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Add appends row and returns the key it was stored under.
func (t *Table) Add(row TestRow) string {
	base := row.Key()
	key := base
	for n := 2; ; n++ {
		if _, taken := t.index[key]; !taken {
			break
		}
		key = fmt.Sprintf("%s #%d", base, n)
	}
	t.index[key] = len(t.rows)
	t.keys = append(t.keys, key)
	t.rows = append(t.rows, row)
	return key
}

// Get returns the row stored under key.
func (t *Table) Get(key string) (TestRow, bool) {
	i, ok := t.index[key]
	if !ok {
		return TestRow{}, false
	}
	return t.rows[i], true
}

func (t *Table) Rows() []TestRow {
	out := make([]TestRow, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *Table) Len() int { return len(t.rows) }

// Result is the outcome of one parse. Warnings holds non-fatal
// conditions such as ErrTableHeaderNotFound.
type Result struct {
	Fields   *Fields
	Table    *Table
	Warnings []error
}

func newResult() *Result {
	return &Result{Fields: NewFields(), Table: NewTable()}
}

// Rows is shorthand for r.Table.Rows().
func (r *Result) Rows() []TestRow {
	return r.Table.Rows()
}

// HasWarning reports whether target is among the result's warnings.
func (r *Result) HasWarning(target error) bool {
	for _, w := range r.Warnings {
		if errors.Is(w, target) {
			return true
		}
	}
	return false
}

type resultJSON struct {
	Fields *Fields   `json:"fields"`
	Rows   []TestRow `json:"rows"`
}

func (r *Result) MarshalJSON() ([]byte, error) {
	rows := r.Table.Rows()
	return json.Marshal(resultJSON{Fields: r.Fields, Rows: rows})
}
