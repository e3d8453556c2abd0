package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine runs OCR through the local Tesseract installation.
// A fresh client per call keeps the engine safe for concurrent pages;
// Tesseract clients are not reusable across goroutines.
type TesseractEngine struct {
	language string
}

// NewTesseractEngine creates an engine using the given Tesseract language,
// "eng" when empty.
func NewTesseractEngine(language string) *TesseractEngine {
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{language: language}
}

// Text extracts text from a page image.
func (e *TesseractEngine) Text(ctx context.Context, imagePath string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR failed: %w", err)
	}
	return text, nil
}
