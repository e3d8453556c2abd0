package workers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"label-matcher/internal/match"
)

type fakeRenderer struct {
	failPages map[int]bool
}

func (f *fakeRenderer) RenderPage(ctx context.Context, pdfPath, outDir string, page int) (string, error) {
	if f.failPages[page] {
		return "", errors.New("render failed")
	}
	// The fake image path carries just the page number for the fake engine.
	return fmt.Sprintf("%d", page), nil
}

type fakeEngine struct {
	// texts maps page number to OCR output; missing pages error.
	texts map[int]string
}

func (f *fakeEngine) Text(ctx context.Context, imagePath string) (string, error) {
	var page int
	fmt.Sscanf(imagePath, "%d", &page)

	text, ok := f.texts[page]
	if !ok {
		return "", errors.New("ocr failed")
	}
	return text, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProcessor(renderer PageRenderer, engine *fakeEngine, pageCount int, workers int) *LabelProcessor {
	p := NewLabelProcessor(renderer, engine, match.New(match.DefaultConfig()), workers, testLogger())
	p.pageCount = func(string) (int, error) { return pageCount, nil }
	return p
}

func TestProcessFile(t *testing.T) {
	candidates := []match.Candidate{
		{ID: 1, OrderID: "SO-1", ShipTo: "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"},
		{ID: 2, OrderID: "SO-2", ShipTo: "JANE DOE\n456 OAK AVE\nDALLAS TX 75201"},
	}

	engine := &fakeEngine{texts: map[int]string{
		1: "USPS PRIORITY MAIL\nSHIP TO:\nJOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701",
		2: "totally unrelated page of text",
		3: "UPS GROUND\nSHIP TO:\nJANE DOE\n456 OAK AVE\nDALLAS TX 75201\n1Z999AA10123456784",
	}}

	p := newTestProcessor(&fakeRenderer{}, engine, 3, 2)

	results, stats, err := p.ProcessFile(context.Background(), "batch.pdf", candidates)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	// Order is preserved regardless of worker scheduling.
	for i, r := range results {
		if r.PageNumber != i+1 {
			t.Errorf("Result %d has page number %d", i, r.PageNumber)
		}
	}

	if !results[0].Matched || results[0].OrderID == nil || *results[0].OrderID != 1 {
		t.Errorf("Expected page 1 to match order 1: %+v", results[0])
	}
	if results[1].Matched {
		t.Error("Expected page 2 to be unmatched")
	}
	if !results[2].Matched || results[2].OrderID == nil || *results[2].OrderID != 2 {
		t.Errorf("Expected page 3 to match order 2: %+v", results[2])
	}

	if stats.TotalPages != 3 || stats.Matched != 2 || stats.Unmatched != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestProcessFilePageFailuresIsolated(t *testing.T) {
	candidates := []match.Candidate{
		{ID: 1, OrderID: "SO-1", ShipTo: "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"},
	}

	engine := &fakeEngine{texts: map[int]string{
		1: "USPS PRIORITY MAIL\nSHIP TO:\nJOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701",
		// Page 2 has no OCR text: the engine errors.
		3: "USPS PRIORITY MAIL\nSHIP TO:\nJOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701",
	}}
	renderer := &fakeRenderer{failPages: map[int]bool{3: true}}

	p := newTestProcessor(renderer, engine, 3, 1)

	results, stats, err := p.ProcessFile(context.Background(), "batch.pdf", candidates)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if !results[0].Matched {
		t.Error("Expected page 1 to match")
	}
	// OCR failure on page 2, render failure on page 3: both become
	// unmatched results, not errors.
	for _, page := range []int{2, 3} {
		r := results[page-1]
		if r.Matched {
			t.Errorf("Expected page %d to be unmatched", page)
		}
		if r.PageNumber != page {
			t.Errorf("Expected page number %d, got %d", page, r.PageNumber)
		}
	}

	if stats.Matched != 1 || stats.Unmatched != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestProcessFileCountError(t *testing.T) {
	p := NewLabelProcessor(&fakeRenderer{}, &fakeEngine{}, match.New(match.DefaultConfig()), 1, testLogger())
	p.pageCount = func(string) (int, error) { return 0, errors.New("corrupt PDF") }

	if _, _, err := p.ProcessFile(context.Background(), "bad.pdf", nil); err == nil {
		t.Error("Expected error for unreadable PDF")
	}
}

func TestProcessFileEmptyPDF(t *testing.T) {
	p := newTestProcessor(&fakeRenderer{}, &fakeEngine{}, 0, 1)

	if _, _, err := p.ProcessFile(context.Background(), "empty.pdf", nil); err == nil {
		t.Error("Expected error for zero-page PDF")
	}
}
