package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillFileName(t *testing.T) {
	assert.Equal(t, "Ramesh_Patel_March_2025.pdf", BillFileName("Ramesh Patel", time.March, 2025))
	assert.Equal(t, "customer_January_2024.pdf", BillFileName("   ", time.January, 2024))
	assert.Equal(t, "OBrien_July_2025.pdf", BillFileName("O'Brien", time.July, 2025))
}

func TestBillArchiveSave(t *testing.T) {
	dir := t.TempDir()
	archive := NewBillArchive(dir, "http://localhost:8080/", "bills")

	url, err := archive.Save("Ramesh_March_2025.pdf", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/bills/Ramesh_March_2025.pdf", url)

	// Regeneration overwrites the earlier file at the same URL.
	_, err = archive.Save("Ramesh_March_2025.pdf", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Ramesh_March_2025.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestBillArchiveSaveRequiresFilename(t *testing.T) {
	archive := NewBillArchive(t.TempDir(), "http://localhost:8080", "/bills")
	_, err := archive.Save("", []byte("x"))
	assert.Error(t, err)
}
