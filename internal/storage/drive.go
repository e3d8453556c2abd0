// Package storage archives uploaded label PDFs to Google Drive so the
// source document behind a matching run stays retrievable.
package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveConfig holds Google Drive API configuration
type DriveConfig struct {
	// CredentialsFile is a service account JSON key file.
	CredentialsFile string
	// FolderID is the Drive folder uploads land in; empty uploads to the
	// service account's root.
	FolderID string
	// RequestTimeout bounds individual Drive calls.
	RequestTimeout time.Duration
}

// DriveClient uploads label PDFs to Google Drive
type DriveClient struct {
	service  *drive.Service
	folderID string
	timeout  time.Duration
}

// NewDriveClient creates a new Drive API client and verifies the connection
func NewDriveClient(ctx context.Context, config *DriveConfig) (*DriveClient, error) {
	data, err := os.ReadFile(config.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read Drive credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Drive credentials: %w", err)
	}

	service, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &DriveClient{
		service:  service,
		folderID: config.FolderID,
		timeout:  timeout,
	}

	if err := client.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("Drive client health check failed: %w", err)
	}

	return client, nil
}

// HealthCheck verifies the Drive connection is usable
func (c *DriveClient) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.service.About.Get().Fields("user").Context(ctx).Do(); err != nil {
		return fmt.Errorf("Drive about request failed: %w", err)
	}
	return nil
}

// UploadPDF uploads a local PDF under the given name and returns its web
// view link.
func (c *DriveClient) UploadPDF(ctx context.Context, localPath, name string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF for upload: %w", err)
	}
	defer f.Close()

	meta := &drive.File{
		Name:     name,
		MimeType: "application/pdf",
	}
	if c.folderID != "" {
		meta.Parents = []string{c.folderID}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	uploaded, err := c.service.Files.Create(meta).
		Media(f).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("Drive upload failed: %w", err)
	}

	return uploaded.WebViewLink, nil
}
