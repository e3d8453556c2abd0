// Package pdfpage renders label PDFs to page images for OCR. Page counting
// goes through pdfcpu; rasterization shells out to pdftoppm (poppler-utils)
// because no pure-Go renderer handles the printer-generated label PDFs
// reliably.
package pdfpage

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Renderer renders PDF pages to PNG images.
type Renderer struct {
	// PdftoppmPath is the pdftoppm binary, "pdftoppm" by default.
	PdftoppmPath string
	// DPI is the render resolution. Label OCR needs at least 300.
	DPI int
}

// NewRenderer creates a renderer with the given binary path and resolution.
func NewRenderer(pdftoppmPath string, dpi int) *Renderer {
	if pdftoppmPath == "" {
		pdftoppmPath = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &Renderer{PdftoppmPath: pdftoppmPath, DPI: dpi}
}

// PageCount returns the number of pages in a PDF.
func PageCount(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return count, nil
}

// RenderPage renders a single page (1-indexed) to a PNG under outDir and
// returns the image path.
func (r *Renderer) RenderPage(ctx context.Context, pdfPath, outDir string, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("invalid page number %d", page)
	}

	outputPrefix := filepath.Join(outDir, fmt.Sprintf("page-%04d", page))

	// -singlefile drops the page number suffix so the output path is
	// predictable.
	pageStr := fmt.Sprintf("%d", page)
	cmd := exec.CommandContext(ctx, r.PdftoppmPath,
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", fmt.Sprintf("%d", r.DPI),
		"-singlefile",
		pdfPath,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	imagePath := outputPrefix + ".png"
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("pdftoppm produced no output for page %d: %w", page, err)
	}
	return imagePath, nil
}
