// Package ocr extracts text from rendered label page images.
package ocr

import "context"

// Engine extracts text from a page image. Implementations must be safe for
// concurrent use by the label processor's page workers.
type Engine interface {
	Text(ctx context.Context, imagePath string) (string, error)
}
