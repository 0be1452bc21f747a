// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"fmt"

	"github.com/sassoftware/viya-coa-xtract/logger"
)

// Engine reconstructs header fields and the results table from page
// glyphs. An Engine holds only its options; every parse keeps its state
// on the stack, so one Engine may serve concurrent parses.
type Engine struct {
	extractHeaderFields bool
	keepParentRows      bool
	sampleRows          int
	debugOn             bool
}

// NewEngine builds an Engine from the parsing options in cfg.
func NewEngine(cfg *Config) *Engine {
	sample := cfg.SampleRows
	if sample < 1 {
		sample = defaultSampleRows
	}
	return &Engine{
		extractHeaderFields: cfg.ExtractHeaderFields,
		keepParentRows:      cfg.KeepParentRows,
		sampleRows:          sample,
		debugOn:             cfg.DebugOn,
	}
}

// ParseGlyphs parses a document given as one glyph slice per page.
// A document with no pages, or with no glyphs on any page, is rejected
// with a *ScannedDocumentError.
func (e *Engine) ParseGlyphs(pages [][]Glyph) (*Result, error) {
	glyphs := 0
	for _, g := range pages {
		glyphs += len(g)
	}
	if glyphs == 0 {
		logger.Debug(fmt.Sprintf("No text glyphs found: pages=%d", len(pages)), e.debugOn)
		return nil, &ScannedDocumentError{Pages: len(pages), ImagePages: -1}
	}

	tokenized := make([]Page, len(pages))
	for i, g := range pages {
		tokenized[i] = TokenizePage(i+1, g)
	}
	return e.ParsePages(tokenized), nil
}

// ParsePages parses already tokenized pages. The table header is
// located once for the whole document; rows above it feed the header
// fields and rows below it feed the table.
func (e *Engine) ParsePages(pages []Page) *Result {
	res := newResult()

	var rows []docRow
	for _, p := range pages {
		for _, r := range p.Rows {
			rows = append(rows, docRow{page: p.Number, row: r})
		}
	}
	plain := make([]Row, len(rows))
	for i, r := range rows {
		plain[i] = r.row
	}

	loc, found := LocateHeader(plain)
	headerEnd := len(rows)
	var signOff []string

	if found {
		headerEnd = loc.Start
		cuts := CutsFromLayout(loc.Columns)
		if loc.Split {
			cuts = refineCuts(cuts, plain, loc.Index, e.sampleRows, IsFooter)
		}
		logger.Debug(fmt.Sprintf("Table header located: row=%d split=%v cuts=%v", loc.Index, loc.Split, cuts), e.debugOn)

		a := newAssembler(cuts, e.keepParentRows)
		a.run(rows, loc.Index+1)
		res.Table = a.table
		signOff = a.footers
	} else {
		logger.Warn("Table header not found; returning header fields only", "rows", len(rows))
		res.Warnings = append(res.Warnings, ErrTableHeaderNotFound)
	}

	if e.extractHeaderFields {
		lines := make([]string, 0, headerEnd)
		for _, r := range plain[:headerEnd] {
			if t := r.Text(); t != "" {
				lines = append(lines, t)
			}
		}
		res.Fields = ParseHeaderFields(lines, signOff)
	}

	logger.Debug(fmt.Sprintf("Parse completed: fields=%d rows=%d", res.Fields.Len(), res.Table.Len()), e.debugOn)
	return res
}
