// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "product label split",
			lines: []string{"Product Paracetamol Tablets", "Name"},
			want:  []string{"Product Name Paracetamol Tablets"},
		},
		{
			name:  "product code label split",
			lines: []string{"Product PC-001", "Code"},
			want:  []string{"Product Code PC-001"},
		},
		{
			name:  "storage labels wrapped below",
			lines: []string{"Storage 25C/60%RH Schedule 6M Schedule 15-JAN-2025", "Condition period Date"},
			want:  []string{"Storage Condition 25C/60%RH Schedule period 6M Schedule Date 15-JAN-2025"},
		},
		{
			name:  "storage labels with residue",
			lines: []string{"Storage 25C/60%RH Schedule 6M Schedule 15-JAN", "Condition period Date 2025"},
			want:  []string{"Storage Condition 25C/60%RH Schedule period 6M Schedule Date 15-JAN 2025"},
		},
		{
			name:  "storage with one schedule",
			lines: []string{"Storage 30C/65%RH Schedule 12M", "Condition period Date"},
			want:  []string{"Storage Condition 30C/65%RH Schedule period 12M"},
		},
		{
			name:  "sample labels wrapped below",
			lines: []string{"Sample 20 Tablets Packing HDPE Pack Size 30", "orientation Type"},
			want:  []string{"Sample orientation 20 Tablets Packing Type HDPE Pack Size 30"},
		},
		{
			name:  "sample labels with residue",
			lines: []string{"Sample 20 Packing HDPE Pack Size 30", "orientation Type Tablets"},
			want:  []string{"Sample orientation 20 Packing Type HDPE Pack Size 30 Tablets"},
		},
		{
			name:  "specification id continuation",
			lines: []string{"Specification SP-10", "ID 0-A"},
			want:  []string{"Specification ID SP-10 0-A"},
		},
		{
			name:  "protocol id continuation",
			lines: []string{"Batch Size 100 vials Protocol PR-", "ID 9"},
			want:  []string{"Batch Size 100 vials Protocol ID PR-9"},
		},
		{
			name:  "storage condition label",
			lines: []string{"Storage", "Condition 40C/75%RH"},
			want:  []string{"Storage Condition 40C/75%RH"},
		},
		{
			name:  "sample orientation label",
			lines: []string{"Sample", "orientation Upright"},
			want:  []string{"Sample orientation Upright"},
		},
		{
			name:  "packing type",
			lines: []string{"Sample orientation Upright Packing", "Type HDPE"},
			want:  []string{"Sample orientation Upright Packing Type HDPE"},
		},
		{
			name:  "schedule period",
			lines: []string{"Storage Condition 25C/60%RH Schedule", "period 6M"},
			want:  []string{"Storage Condition 25C/60%RH Schedule period 6M"},
		},
		{
			name:  "pack size",
			lines: []string{"Packing Type HDPE Pack", "Size 30"},
			want:  []string{"Packing Type HDPE Pack Size 30"},
		},
		{
			name:  "vials unit",
			lines: []string{"Batch Size 100", "vials"},
			want:  []string{"Batch Size 100 vials"},
		},
		{
			name:  "vials with trailing text",
			lines: []string{"Batch Size 100", "vials Protocol ID PR-9"},
			want:  []string{"Batch Size 100 vials Protocol ID PR-9"},
		},
		{
			name:  "unrelated lines kept",
			lines: []string{"Product Name Paracetamol", "", "STP No. STP-01"},
			want:  []string{"Product Name Paracetamol", "STP No. STP-01"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, footers := mergeLines(tt.lines)
			assert.Equal(t, tt.want, merged)
			assert.Empty(t, footers)
		})
	}
}

func TestMergeLines_SetsFootersAside(t *testing.T) {
	merged, footers := mergeLines([]string{
		"Product Name Paracetamol",
		"Checked by: A Approved by: B",
		"ABC Pharmaceuticals Ltd, Plot No. 12, Hyderabad - 500032",
		"STP No. STP-01",
	})
	assert.Equal(t, []string{"Product Name Paracetamol", "STP No. STP-01"}, merged)
	assert.Equal(t, []string{
		"Checked by: A Approved by: B",
		"ABC Pharmaceuticals Ltd, Plot No. 12, Hyderabad - 500032",
	}, footers)
}

func TestResidue(t *testing.T) {
	assert.Equal(t, "2025", residue("Condition period Date 2025", "Condition", "period", "Date"))
	assert.Equal(t, "Date", residue("Date Date", "Date"))
	assert.Equal(t, "", residue("orientation Type", "orientation", "Type"))
}
