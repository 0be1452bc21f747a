// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

// Report is a typed view of a parsed certificate of analysis. Fields
// missing from the document are empty strings.
type Report struct {
	ProductName      string    `json:"productName"`
	ProductCode      string    `json:"productCode"`
	ARNo             string    `json:"arNo"`
	BatchNo          string    `json:"batchNo"`
	BatchSize        string    `json:"batchSize"`
	MfgDate          string    `json:"mfgDate"`
	ExpDate          string    `json:"expDate"`
	Specification    string    `json:"specification"`
	StorageCondition string    `json:"storageCondition"`
	SampleQty        string    `json:"sampleQty"`
	ReceivedDate     string    `json:"receivedDate"`
	ProtocolID       string    `json:"protocolId"`
	STPNo            string    `json:"stpNo"`
	SchedulePeriod   string    `json:"schedulePeriod"`
	PackingType      string    `json:"packingType"`
	PackSize         string    `json:"packSize"`
	Remarks          string    `json:"remarks"`
	CheckedBy        string    `json:"checkedBy"`
	ApprovedBy       string    `json:"approvedBy"`
	CheckDate        string    `json:"checkDate"`
	ApprovalDate     string    `json:"approvalDate"`
	Tests            []TestRow `json:"tests"`
}

// Report maps the result onto a Report. The sample orientation label is
// where reports print the sample quantity, and the schedule date is
// the date the sample was received.
func (r *Result) Report() Report {
	get := func(key string) string {
		v, _ := r.Fields.Get(key)
		return v
	}
	return Report{
		ProductName:      get(FieldProductName),
		ProductCode:      get(FieldProductCode),
		ARNo:             get(FieldARNo),
		BatchNo:          get(FieldBatchNo),
		BatchSize:        get(FieldBatchSize),
		MfgDate:          get(FieldMfgDate),
		ExpDate:          get(FieldExpDate),
		Specification:    get(FieldSpecificationID),
		StorageCondition: get(FieldStorageCondition),
		SampleQty:        get(FieldSampleOrientation),
		ReceivedDate:     get(FieldScheduleDate),
		ProtocolID:       get(FieldProtocolID),
		STPNo:            get(FieldSTPNo),
		SchedulePeriod:   get(FieldSchedulePeriod),
		PackingType:      get(FieldPackingType),
		PackSize:         get(FieldPackSize),
		Remarks:          get(FieldRemarks),
		CheckedBy:        get(FieldCheckedBy),
		ApprovedBy:       get(FieldApprovedBy),
		CheckDate:        get(FieldCheckDate),
		ApprovalDate:     get(FieldApprovalDate),
		Tests:            r.Table.Rows(),
	}
}
