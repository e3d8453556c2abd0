package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"label-matcher/internal/match"
	"label-matcher/internal/ocr"
	"label-matcher/internal/parser"
	"label-matcher/internal/pdfpage"
)

// PageRenderer renders one PDF page to an image file.
type PageRenderer interface {
	RenderPage(ctx context.Context, pdfPath, outDir string, page int) (string, error)
}

// PageCounter reports how many pages a PDF has.
type PageCounter func(pdfPath string) (int, error)

// LabelProcessor turns a label PDF into per-page match results: render each
// page, OCR it, and match the text against order candidates. Page failures
// are isolated; a page that cannot be rendered or read becomes an unmatched
// result instead of failing the whole file.
type LabelProcessor struct {
	renderer  PageRenderer
	engine    ocr.Engine
	matcher   *match.Matcher
	pageCount PageCounter
	workers   int
	logger    *slog.Logger
}

// NewLabelProcessor creates a processor. Workers below 1 run pages
// sequentially.
func NewLabelProcessor(renderer PageRenderer, engine ocr.Engine, matcher *match.Matcher, workers int, logger *slog.Logger) *LabelProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LabelProcessor{
		renderer:  renderer,
		engine:    engine,
		matcher:   matcher,
		pageCount: pdfpage.PageCount,
		workers:   workers,
		logger:    logger,
	}
}

// ProcessFile runs the full pipeline for one PDF.
func (p *LabelProcessor) ProcessFile(ctx context.Context, pdfPath string, candidates []match.Candidate) ([]match.MatchResult, match.BatchStats, error) {
	pageCount, err := p.pageCount(pdfPath)
	if err != nil {
		return nil, match.BatchStats{}, fmt.Errorf("failed to count pages: %w", err)
	}
	if pageCount == 0 {
		return nil, match.BatchStats{}, fmt.Errorf("PDF has no pages")
	}

	tmpDir, err := os.MkdirTemp("", "label-pages-*")
	if err != nil {
		return nil, match.BatchStats{}, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	p.logger.Info("Processing label PDF",
		"path", pdfPath,
		"pages", pageCount,
		"candidates", len(candidates))

	results := make([]match.MatchResult, pageCount)

	workers := p.workers
	if workers > pageCount {
		workers = pageCount
	}
	if workers < 1 {
		workers = 1
	}

	pages := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range pages {
				results[page-1] = p.processPage(ctx, pdfPath, tmpDir, page, candidates)
			}
		}()
	}

	for page := 1; page <= pageCount; page++ {
		pages <- page
	}
	close(pages)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, match.BatchStats{}, err
	}

	stats := match.BatchStats{TotalPages: pageCount}
	for _, r := range results {
		if r.Matched {
			stats.Matched++
		} else {
			stats.Unmatched++
		}
	}

	p.logger.Info("Finished label PDF",
		"path", pdfPath,
		"matched", stats.Matched,
		"unmatched", stats.Unmatched)

	return results, stats, nil
}

// processPage renders and reads one page. Failures degrade to an unmatched
// result carrying the page number so review queues stay complete.
func (p *LabelProcessor) processPage(ctx context.Context, pdfPath, tmpDir string, page int, candidates []match.Candidate) match.MatchResult {
	imagePath, err := p.renderer.RenderPage(ctx, pdfPath, tmpDir, page)
	if err != nil {
		p.logger.Error("Failed to render page", "page", page, "error", err)
		return unreadablePage(page)
	}

	text, err := p.engine.Text(ctx, imagePath)
	if err != nil {
		p.logger.Error("Failed to OCR page", "page", page, "error", err)
		return unreadablePage(page)
	}

	result := p.matcher.MatchPage(match.OCRPage{PageNumber: page, RawText: text}, candidates)
	if !result.Matched {
		p.logger.Warn("Page did not match any order", "page", page, "carrier", result.LabelType)
	}
	return result
}

func unreadablePage(page int) match.MatchResult {
	return match.MatchResult{
		PageNumber: page,
		Matched:    false,
		LabelType:  parser.CarrierUSPS,
	}
}
