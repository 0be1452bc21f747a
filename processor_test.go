// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/sassoftware/viya-coa-xtract/tracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPageBroken = errors.New("page broken")

// fakeDoc serves fixed page glyphs. fail holds how many times a page
// errors before it succeeds.
type fakeDoc struct {
	pages [][]Glyph

	mu    sync.Mutex
	fail  map[int]int
	calls map[int]int
}

func newFakeDoc(pages ...[]Glyph) *fakeDoc {
	return &fakeDoc{pages: pages, fail: map[int]int{}, calls: map[int]int{}}
}

func (d *fakeDoc) NumPage() int { return len(d.pages) }

func (d *fakeDoc) PageGlyphs(_ context.Context, pageNr int) ([]Glyph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls[pageNr]++
	if d.fail[pageNr] > 0 {
		d.fail[pageNr]--
		return nil, errPageBroken
	}
	return d.pages[pageNr-1], nil
}

// fakeSource opens documents by their byte content.
type fakeSource map[string]*fakeDoc

func (s fakeSource) Open(data []byte) (Document, error) {
	doc, ok := s[string(data)]
	if !ok {
		return nil, errors.New("unknown document")
	}
	return doc, nil
}

// create a Processor
func newTestProcessor(t *testing.T, mode ParsingMode, opts ...Option) *processor {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.ParsingMode = mode
	cfg.MaxRetries = 1
	p, err := NewProcessor(cfg, opts...)
	require.NoError(t, err)
	return p
}

func TestNewProcessor_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MaxConcurrentPDFs = 0
	p, err := NewProcessor(cfg)
	assert.Nil(t, p)
	assert.ErrorContains(t, err, "invalid config")
}

func TestProcessor_Parse(t *testing.T) {
	src := fakeSource{"doc": newFakeDoc(reportPage())}
	p := newTestProcessor(t, BestEffort, WithGlyphSource(src))

	res, err := p.Parse(context.Background(), []byte("doc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1 - Assay by HPLC", "2 - pH", "2 - pH #2"}, res.Table.Keys())
	v, _ := res.Fields.Get(FieldProductName)
	assert.Equal(t, "Paracetamol Tablets", v)
}

func TestProcessor_PageFailures(t *testing.T) {
	page2 := glyphPage(tableLine(50, "3", "Water", "0.4%", "NMT 1.0%"))

	tests := []struct {
		name     string
		mode     ParsingMode
		failures int
		wantErr  bool
		wantRows int
	}{
		{"strict recovers on retry", Strict, 1, false, 4},
		{"strict fails after retries", Strict, 5, true, 0},
		{"best effort skips the page", BestEffort, 5, false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newFakeDoc(reportPage(), page2)
			doc.fail[2] = tt.failures
			p := newTestProcessor(t, tt.mode, WithGlyphSource(fakeSource{"doc": doc}))

			res, err := p.Parse(context.Background(), []byte("doc"))
			if tt.wantErr {
				require.ErrorIs(t, err, errPageBroken)
				assert.ErrorContains(t, err, "page 2")
				assert.Equal(t, 2, doc.calls[2], "one attempt plus one retry")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, res.Table.Len())
		})
	}
}

func TestProcessor_ScannedDocument(t *testing.T) {
	src := fakeSource{"scan": newFakeDoc(nil, nil)}
	counted := 0
	p := newTestProcessor(t, BestEffort, WithGlyphSource(src), withImageCounter(func(data []byte) int {
		counted++
		return 2
	}))

	res, err := p.Parse(context.Background(), []byte("scan"))
	assert.Nil(t, res)
	require.ErrorIs(t, err, ErrScannedDocument)

	var sde *ScannedDocumentError
	require.True(t, errors.As(err, &sde))
	assert.Equal(t, 2, sde.Pages)
	assert.Equal(t, 2, sde.ImagePages)
	assert.Equal(t, 1, counted)
}

func TestProcessor_OpenError(t *testing.T) {
	p := newTestProcessor(t, BestEffort)
	_, err := p.Parse(context.Background(), []byte("not a pdf"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrScannedDocument)
}

func TestProcessor_CancelledContext(t *testing.T) {
	src := fakeSource{"doc": newFakeDoc(reportPage())}
	p := newTestProcessor(t, BestEffort, WithGlyphSource(src))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Parse(ctx, []byte("doc"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessor_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("doc"), 0o600))

	src := fakeSource{"doc": newFakeDoc(reportPage())}
	p := newTestProcessor(t, BestEffort, WithGlyphSource(src))

	res, err := p.ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Table.Len())

	_, err = p.ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcessor_ParseRealPDF(t *testing.T) {
	data := buildPDF(pdfPage(
		pdfText{40, 740, "Product Name Paracetamol Tablets"},
		pdfText{40, 720, "STP No. STP-QC-01"},
		pdfText{40, 680, "S.No."}, pdfText{160, 680, "Test"}, pdfText{360, 680, "Result"}, pdfText{490, 680, "Specification"},
		pdfText{40, 660, "1"}, pdfText{160, 660, "Assay"}, pdfText{360, 660, "99.2%"}, pdfText{490, 660, "98.0-102.0%"},
		pdfText{40, 645, "2"}, pdfText{160, 645, "Water content"}, pdfText{360, 645, "0.4%"}, pdfText{490, 645, "NMT 1.0%"},
	))
	p := newTestProcessor(t, Strict)

	res, err := p.Parse(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, []TestRow{
		{Serial: "1", Test: "Assay", Result: "99.2%", Specification: "98.0-102.0%"},
		{Serial: "2", Test: "Water content", Result: "0.4%", Specification: "NMT 1.0%"},
	}, res.Rows())
	assertFields(t, map[string]string{
		FieldProductName: "Paracetamol Tablets",
		FieldSTPNo:       "STP-QC-01",
	}, res.Fields)
}

func TestProcessor_ParseAll(t *testing.T) {
	other := glyphPage(
		tableLine(100, "S.No.", "Test", "Result", "Specification"),
		tableLine(120, "1", "Water", "0.4%", "NMT 1.0%"),
	)
	src := fakeSource{
		"a": newFakeDoc(reportPage()),
		"b": newFakeDoc(other),
	}
	p := newTestProcessor(t, BestEffort, WithGlyphSource(src))

	results, err := p.ParseAll(context.Background(), [][]byte{[]byte("b"), []byte("a"), []byte("b")})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"1 - Water"}, results[0].Table.Keys())
	assert.Equal(t, 3, results[1].Table.Len())
	assert.Equal(t, []string{"1 - Water"}, results[2].Table.Keys())

	_, err = p.ParseAll(context.Background(), [][]byte{[]byte("a"), []byte("missing")})
	assert.ErrorContains(t, err, "document 1")
}

func TestAdjustWorkerCount(t *testing.T) {
	proc := &processor{}

	assert.Equal(t, 1, proc.adjustWorkerCount(0, 10))
	assert.Equal(t, runtime.NumCPU(), proc.adjustWorkerCount(runtime.NumCPU(), 100))
	assert.Equal(t, 1, proc.adjustWorkerCount(4, 1))
	if runtime.NumCPU() >= 2 {
		assert.Equal(t, 2, proc.adjustWorkerCount(2, 10))
	}
}

func TestProcessor_TraceFollowsDebugOn(t *testing.T) {
	data := buildPDF(pdfPage(
		pdfText{40, 680, "S.No."}, pdfText{160, 680, "Test"}, pdfText{360, 680, "Result"}, pdfText{490, 680, "Specification"},
		pdfText{40, 660, "1"}, pdfText{160, 660, "Assay"}, pdfText{360, 660, "99.2%"}, pdfText{490, 660, "98.0-102.0%"},
	))

	for _, debugOn := range []bool{false, true} {
		tracer.Reset()
		t.Cleanup(tracer.Reset)

		cfg := NewDefaultConfig()
		cfg.DebugOn = debugOn
		p, err := NewProcessor(cfg)
		require.NoError(t, err)

		_, err = p.Parse(context.Background(), data)
		require.NoError(t, err)
		_, err = p.Parse(context.Background(), []byte("not a pdf"))
		require.Error(t, err)

		if debugOn {
			assert.NotEmpty(t, tracer.Messages())
		} else {
			assert.Empty(t, tracer.Messages(), "trace log must stay empty by default")
		}
	}
}
