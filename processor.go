// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/sassoftware/viya-coa-xtract/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Processor defines the contract for parsing report documents.
type Processor interface {
	Parse(ctx context.Context, data []byte) (*Result, error)
	ParseFile(ctx context.Context, path string) (*Result, error)
	ParseAll(ctx context.Context, docs [][]byte) ([]*Result, error)
}

// ExtractorStrategy defines how glyphs are taken from a single page.
// Different strategies handle errors differently (strict vs. best-effort).
type ExtractorStrategy interface {
	ExtractPage(ctx context.Context, doc Document, pageNr int) ([]Glyph, error)
}

// StrictExtractor enforces strict parsing.
// If any page fails, the entire parse fails.
type StrictExtractor struct{}

func (s *StrictExtractor) ExtractPage(ctx context.Context, doc Document, pageNr int) ([]Glyph, error) {
	return doc.PageGlyphs(ctx, pageNr)
}

// BestEffortExtractor tolerates errors.
// If a page fails, it is treated as a page without text.
type BestEffortExtractor struct {
	Trace bool
}

func (b *BestEffortExtractor) ExtractPage(ctx context.Context, doc Document, pageNr int) ([]Glyph, error) {
	glyphs, err := doc.PageGlyphs(ctx, pageNr)
	if err != nil {
		// In best-effort mode, ignore errors and continue.
		logger.Debug(fmt.Sprintf("BestEffortExtractor: failed to extract page glyphs, ignoring error: page=%d err=%v", pageNr, err), b.Trace)
		return nil, nil
	}
	return glyphs, nil
}

// Option customizes a processor.
type Option func(*processor)

// WithGlyphSource replaces the PDF glyph source.
func WithGlyphSource(src GlyphSource) Option {
	return func(p *processor) {
		if src != nil {
			p.source = src
		}
	}
}

func withImageCounter(f imagePageCounter) Option {
	return func(p *processor) { p.images = f }
}

// processor manages document parsing with concurrency control
// and delegates page-level work to the chosen ExtractorStrategy.
type processor struct {
	cfg       *Config
	sem       *semaphore.Weighted
	extractor ExtractorStrategy
	source    GlyphSource
	engine    *Engine
	images    imagePageCounter
	debugOn   bool
}

// NewProcessor validates the config and creates a new processor.
// Selects the correct ExtractorStrategy (Strict or BestEffort).
func NewProcessor(cfg *Config, opts ...Option) (*processor, error) {
	//Validate the config object
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	//Select ExtractorStrategy
	var extractor ExtractorStrategy
	switch cfg.ParsingMode {
	case Strict:
		extractor = &StrictExtractor{}
	case BestEffort:
		extractor = &BestEffortExtractor{Trace: cfg.DebugOn}
	}

	//Set the logger function
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}

	p := &processor{
		cfg:       cfg,
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrentPDFs)),
		extractor: extractor,
		source:    PDFSource{Trace: cfg.DebugOn},
		engine:    NewEngine(cfg),
		images:    countImagePages,
		debugOn:   cfg.DebugOn,
	}
	for _, opt := range opts {
		opt(p)
	}

	logger.Debug(fmt.Sprintf("Processor initialized: parsing_mode=%v, max_concurrent_pdfs=%d, max_workers_per_pdf=%d, extract_header_fields=%v",
		cfg.ParsingMode, cfg.MaxConcurrentPDFs, cfg.MaxWorkersPerPDF, cfg.ExtractHeaderFields), cfg.DebugOn)
	return p, nil
}

// ParseFile reads the document at path and parses it.
func (p *processor) ParseFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug(fmt.Sprintf("Failed to read document: path=%s err=%v", path, err), p.debugOn)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Parse(ctx, data)
}

// Parse extracts page glyphs from data and reconstructs the report.
// Only ErrScannedDocument, document open failures, strict-mode page
// failures and context errors are returned; a missing table header is
// reported through Result.Warnings.
func (p *processor) Parse(ctx context.Context, data []byte) (*Result, error) {
	parseID := uuid.NewString()
	logger.Debug(fmt.Sprintf("Starting parse: parse_id=%s bytes=%d", parseID, len(data)), p.debugOn)

	if err := p.acquireSlot(ctx); err != nil {
		logger.Debug(fmt.Sprintf("Failed to acquire slot: parse_id=%s err=%v", parseID, err), p.debugOn)
		return nil, err
	}
	defer p.sem.Release(1)

	doc, err := p.source.Open(data)
	if err != nil {
		logger.Debug(fmt.Sprintf("Failed to open document: parse_id=%s err=%v", parseID, err), p.debugOn)
		return nil, err
	}

	total := doc.NumPage()
	logger.Debug(fmt.Sprintf("Total pages detected: parse_id=%s pages=%d", parseID, total), p.debugOn)

	pages, err := p.extractPages(ctx, doc, total)
	if err != nil {
		return nil, err
	}

	res, err := p.engine.ParseGlyphs(pages)
	if err != nil {
		var scanned *ScannedDocumentError
		if errors.As(err, &scanned) && p.images != nil {
			scanned.ImagePages = p.images(data)
			logger.Debug(fmt.Sprintf("Image census: parse_id=%s image_pages=%d", parseID, scanned.ImagePages), p.debugOn)
		}
		logger.Error("Document rejected", "parse_id", parseID, "err", err)
		return nil, err
	}
	for _, w := range res.Warnings {
		logger.Warn("Parse warning", "parse_id", parseID, "warning", w)
	}

	logger.Debug(fmt.Sprintf("Parse completed: parse_id=%s fields=%d rows=%d", parseID, res.Fields.Len(), res.Table.Len()), p.debugOn)
	return res, nil
}

// ParseAll parses several documents concurrently, bounded by
// MaxConcurrentPDFs. Results are returned in input order; the first
// error cancels the remaining parses.
func (p *processor) ParseAll(ctx context.Context, docs [][]byte) ([]*Result, error) {
	results := make([]*Result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxConcurrentPDFs)
	for i, data := range docs {
		i, data := i, data
		g.Go(func() error {
			res, err := p.Parse(gctx, data)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// extractPages collects the glyphs of every page, in page order.
func (p *processor) extractPages(ctx context.Context, doc Document, total int) ([][]Glyph, error) {
	if total == 0 {
		return nil, nil
	}

	numWorkers := p.adjustWorkerCount(p.cfg.MaxWorkersPerPDF, total)
	jobs, results := make(chan int, total), make(chan pageResult, total)

	var wg sync.WaitGroup
	p.startWorkers(ctx, doc, jobs, results, numWorkers, &wg)
	feedErr := p.feedJobs(ctx, total, jobs)
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	pages := make([][]Glyph, total)
	for res := range results {
		if res.err != nil && p.cfg.ParsingMode == Strict {
			logger.Debug(fmt.Sprintf("Strict mode error, stopping parse: page=%d err=%v", res.index, res.err), p.debugOn)
			return nil, fmt.Errorf("strict mode failed on page %d: %w", res.index, res.err)
		}
		pages[res.index-1] = res.glyphs
	}
	if feedErr != nil {
		return nil, feedErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (p *processor) acquireSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	logger.Debug("Slot acquired successfully", p.debugOn)
	return nil
}

func (p *processor) adjustWorkerCount(maxWorkers, pages int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxWorkers > runtime.NumCPU() {
		maxWorkers = runtime.NumCPU()
	}
	if maxWorkers > pages {
		maxWorkers = pages
	}
	logger.Debug(fmt.Sprintf("Adjusted worker count: workers=%d", maxWorkers), p.debugOn)
	return maxWorkers
}

type pageResult struct {
	index  int
	glyphs []Glyph
	err    error
}

func (p *processor) startWorkers(ctx context.Context, doc Document, jobs <-chan int, results chan<- pageResult, numWorkers int, wg *sync.WaitGroup) {
	logger.Debug(fmt.Sprintf("Spawning workers: num_workers=%d", numWorkers), p.debugOn)
	for w := 1; w <= numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range jobs {
				glyphs, err := p.extractPageWithRetries(ctx, doc, i)
				results <- pageResult{i, glyphs, err}
				if err != nil {
					logger.Debug(fmt.Sprintf("Worker: page extraction error: worker_id=%d page=%d err=%v", id, i, err), p.debugOn)
				}
			}
		}(w)
	}
}

func (p *processor) extractPageWithRetries(ctx context.Context, doc Document, pageNr int) ([]Glyph, error) {
	var glyphs []Glyph
	var err error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		ctxPage, cancel := context.WithTimeout(ctx, p.cfg.WorkerTimeout)
		glyphs, err = p.extractor.ExtractPage(ctxPage, doc, pageNr)
		cancel()
		if err == nil || ctx.Err() != nil {
			break
		}
		logger.Debug(fmt.Sprintf("Retrying page extraction: page=%d attempt=%d err=%v", pageNr, attempt, err), p.debugOn)
	}
	return glyphs, err
}

func (p *processor) feedJobs(ctx context.Context, total int, jobs chan<- int) error {
	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			logger.Debug("Context cancelled while feeding jobs", p.debugOn)
			return ctx.Err()
		case jobs <- i:
		}
	}
	logger.Debug(fmt.Sprintf("All jobs queued: total_pages=%d", total), p.debugOn)
	return nil
}
