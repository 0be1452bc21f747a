// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sassoftware/viya-coa-xtract/logger"
)

const (
	// US Letter, used when a page carries no readable MediaBox
	defaultPageHeight = 792.0
	// fraction of the font size assumed for a space when the font has no width for it
	fallbackSpaceRatio = 0.25
)

// GlyphSource opens documents for glyph extraction.
type GlyphSource interface {
	Open(data []byte) (Document, error)
}

// Document gives page-level access to the glyphs of an opened document.
// Pages are numbered from 1. Implementations must allow concurrent
// PageGlyphs calls.
type Document interface {
	NumPage() int
	PageGlyphs(ctx context.Context, pageNr int) ([]Glyph, error)
}

// PDFSource reads glyphs from PDF text content streams.
// Trace copies page-level debug messages to the trace log.
type PDFSource struct {
	Trace bool
}

func (s PDFSource) Open(data []byte) (Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &pdfDocument{r: r, trace: s.Trace}, nil
}

type pdfDocument struct {
	r     *pdf.Reader
	trace bool
}

func (d *pdfDocument) NumPage() int {
	return d.r.NumPage()
}

// PageGlyphs returns the glyphs of page pageNr with y flipped so that it
// grows downward from the top of the page.
func (d *pdfDocument) PageGlyphs(ctx context.Context, pageNr int) (glyphs []Glyph, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract page %d: %v", pageNr, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := d.r.Page(pageNr)
	if page.V.IsNull() {
		return nil, fmt.Errorf("null page: %d", pageNr)
	}

	height := pageHeight(page)
	spaces := spaceRatios(page)

	for _, t := range page.Content().Text {
		if t.S == "\n" || t.S == "\r" || t.S == "\t" || t.S == "" {
			continue
		}
		space := spaces[baseFontName(t.Font)] * t.FontSize
		if space <= 0 {
			space = t.FontSize * fallbackSpaceRatio
		}
		glyphs = append(glyphs, Glyph{
			X:          t.X,
			Y:          height - t.Y,
			Char:       t.S,
			Width:      t.W,
			SpaceWidth: space,
		})
	}
	logger.Debug(fmt.Sprintf("Page glyphs extracted: page=%d glyphs=%d", pageNr, len(glyphs)), d.trace)
	return glyphs, nil
}

// pageHeight reads the MediaBox height, inherited through the page tree.
func pageHeight(p pdf.Page) float64 {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.IsNull() || box.Len() < 4 {
			continue
		}
		if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
			return h
		}
	}
	return defaultPageHeight
}

// spaceRatios maps each page font, by base name, to the width of its
// space glyph as a fraction of the font size.
func spaceRatios(p pdf.Page) map[string]float64 {
	out := make(map[string]float64)
	for _, name := range p.Fonts() {
		f := p.Font(name)
		base := baseFontName(f.BaseFont())
		if _, ok := out[base]; ok {
			continue
		}
		if w := f.Width(' '); w > 0 {
			out[base] = w / 1000
		}
	}
	return out
}

// baseFontName drops the subset tag from a font name, "ABCDEF+Arial"
// becoming "Arial".
func baseFontName(name string) string {
	if i := strings.Index(name, "+"); i >= 0 {
		return name[i+1:]
	}
	return name
}
