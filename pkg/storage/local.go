// Package storage archives rendered bills on local disk and hands out
// public URLs for them. The archive directory is served statically by
// the HTTP layer with a public read policy, since bill links travel
// over unauthenticated channels (WhatsApp).
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// BillArchive stores bill documents under a root directory.
type BillArchive struct {
	root         string
	baseURL      string
	publicPrefix string
}

// NewBillArchive creates an archive rooted at root. baseURL and
// publicPrefix together form the public address of stored files.
func NewBillArchive(root, baseURL, publicPrefix string) *BillArchive {
	return &BillArchive{
		root:         root,
		baseURL:      strings.TrimRight(baseURL, "/"),
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}
}

// Root returns the archive directory, for static file serving.
func (a *BillArchive) Root() string {
	return a.root
}

// Save writes data under the given filename, overwriting any earlier
// version of the same bill, and returns the public URL.
func (a *BillArchive) Save(filename string, data []byte) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("storage: filename is required")
	}
	if err := os.MkdirAll(a.root, 0o755); err != nil {
		return "", fmt.Errorf("storage: failed to create archive dir: %w", err)
	}

	path := filepath.Join(a.root, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: failed to write %s: %w", filename, err)
	}

	return a.baseURL + a.publicPrefix + "/" + filename, nil
}

// BillFileName builds the deterministic archive name for a customer's
// monthly bill: {customerName}_{Month}_{Year}.pdf. Regenerating the
// same bill overwrites the previous file, so stale links always fetch
// the latest rendering.
func BillFileName(customerName string, month time.Month, year int) string {
	name := unsafeChars.ReplaceAllString(strings.ReplaceAll(strings.TrimSpace(customerName), " ", "_"), "")
	if name == "" {
		name = "customer"
	}
	return fmt.Sprintf("%s_%s_%d.pdf", name, month.String(), year)
}
