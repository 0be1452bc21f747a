// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sassoftware/viya-coa-xtract/logger"
)

// imagePageCounter reports how many pages of a document carry images,
// or -1 when that cannot be determined.
type imagePageCounter func(data []byte) int

// countImagePages counts the pages that reference at least one image
// XObject. A scanned report typically has one per page.
func countImagePages(data []byte) (n int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug(fmt.Sprintf("Image census failed: err=%v", r))
			n = -1
		}
	}()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		logger.Debug(fmt.Sprintf("Image census skipped: err=%v", err))
		return -1
	}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
			n++
		}
	}
	logger.Debug(fmt.Sprintf("Image census: pages=%d image_pages=%d", ctx.PageCount, n))
	return n
}
