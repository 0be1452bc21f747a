// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"errors"
	"fmt"
)

var (
	// ErrScannedDocument is returned when a document carries no text
	// glyphs at all. Image-only input needs OCR, which is not supported.
	ErrScannedDocument = errors.New("scanned document not supported")

	// ErrTableHeaderNotFound is recorded as a warning on the Result when
	// no results table header could be located. It is never returned.
	ErrTableHeaderNotFound = errors.New("table header not found")
)

// ScannedDocumentError describes a document rejected as scanned.
type ScannedDocumentError struct {
	Pages      int // pages in the document
	ImagePages int // pages carrying at least one image XObject, -1 if unknown
}

func (e *ScannedDocumentError) Error() string {
	if e.ImagePages < 0 {
		return fmt.Sprintf("%v: pages=%d", ErrScannedDocument, e.Pages)
	}
	return fmt.Sprintf("%v: pages=%d image_pages=%d", ErrScannedDocument, e.Pages, e.ImagePages)
}

func (e *ScannedDocumentError) Is(target error) bool {
	return target == ErrScannedDocument
}

func (e *ScannedDocumentError) Unwrap() error {
	return ErrScannedDocument
}
