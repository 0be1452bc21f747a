// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_AddDeduplicatesKeys(t *testing.T) {
	tbl := NewTable()
	row := TestRow{Serial: "2", Test: "pH", Result: "5.1", Specification: "4.5 - 6.0"}

	assert.Equal(t, "2 - pH", tbl.Add(row))
	assert.Equal(t, "2 - pH #2", tbl.Add(row))
	assert.Equal(t, "2 - pH #3", tbl.Add(row))
	assert.Equal(t, "3 - Water", tbl.Add(TestRow{Serial: "3", Test: "Water"}))

	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"2 - pH", "2 - pH #2", "2 - pH #3", "3 - Water"}, tbl.Keys())

	got, ok := tbl.Get("2 - pH #3")
	require.True(t, ok)
	assert.Equal(t, row, got)
	_, ok = tbl.Get("2 - pH #4")
	assert.False(t, ok)
}

func TestTable_LiteralSuffixCollision(t *testing.T) {
	tbl := NewTable()
	tbl.Add(TestRow{Serial: "1", Test: "A #2"})
	tbl.Add(TestRow{Serial: "1", Test: "A"})
	// "1 - A #2" is taken by a real test name
	assert.Equal(t, "1 - A #3", tbl.Add(TestRow{Serial: "1", Test: "A"}))
}

func TestTable_RowsIsACopy(t *testing.T) {
	tbl := NewTable()
	tbl.Add(TestRow{Serial: "1", Test: "Assay"})
	rows := tbl.Rows()
	rows[0].Test = "changed"
	assert.Equal(t, "Assay", tbl.Rows()[0].Test)
}

func TestFields_Order(t *testing.T) {
	f := NewFields()
	f.Set(FieldSTPNo, "STP-1")
	f.Set(FieldProductName, "Paracetamol")
	assert.True(t, f.SetIfAbsent(FieldBatchNo, "B1"))
	assert.False(t, f.SetIfAbsent(FieldSTPNo, "STP-2"))
	f.Set(FieldProductName, "Ibuprofen")

	assert.Equal(t, []string{FieldSTPNo, FieldProductName, FieldBatchNo}, f.Keys())
	v, _ := f.Get(FieldSTPNo)
	assert.Equal(t, "STP-1", v)
	v, _ = f.Get(FieldProductName)
	assert.Equal(t, "Ibuprofen", v)
	assert.Equal(t, 3, f.Len())

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"STP No.":"STP-1","Product Name":"Ibuprofen","B.No.":"B1"}`, string(b))
}

func TestResult_MarshalJSON(t *testing.T) {
	res := newResult()
	res.Fields.Set(FieldProductName, "Paracetamol")
	res.Table.Add(TestRow{Serial: "1", Test: "Assay", Result: "99.2%", Specification: "98-102%"})
	res.Warnings = append(res.Warnings, ErrTableHeaderNotFound)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fields": {"Product Name": "Paracetamol"},
		"rows": [{"serial": "1", "test": "Assay", "result": "99.2%", "specification": "98-102%"}]
	}`, string(b))
	assert.True(t, res.HasWarning(ErrTableHeaderNotFound))
	assert.False(t, res.HasWarning(ErrScannedDocument))
}

func TestResult_Report(t *testing.T) {
	res := newResult()
	res.Fields.Set(FieldProductName, "Paracetamol")
	res.Fields.Set(FieldSampleOrientation, "20 Tablets")
	res.Fields.Set(FieldScheduleDate, "15-JAN-2025")
	res.Fields.Set(FieldSpecificationID, "SP-100")
	res.Table.Add(TestRow{Serial: "1", Test: "Assay"})

	r := res.Report()
	assert.Equal(t, "Paracetamol", r.ProductName)
	assert.Equal(t, "20 Tablets", r.SampleQty)
	assert.Equal(t, "15-JAN-2025", r.ReceivedDate)
	assert.Equal(t, "SP-100", r.Specification)
	assert.Empty(t, r.BatchNo)
	assert.Equal(t, []TestRow{{Serial: "1", Test: "Assay"}}, r.Tests)
}
