package bundle

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeZip writes an archive with the given members. Names ending in "/" are
// directories.
func makeZip(t *testing.T, names ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for _, n := range names {
		fw, err := w.Create(n)
		require.NoError(t, err)
		if n[len(n)-1] != '/' {
			_, err = fw.Write([]byte("%PDF-1.4 " + n))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestValidateAcceptsPDFsOnly(t *testing.T) {
	path := makeZip(t, "12_2025/", "12_2025/7002 10-2025A+11-2025B.pdf", "7003.PDF")

	members, err := Validate(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"12_2025/7002 10-2025A+11-2025B.pdf", "7003.PDF"}, members)
}

func TestValidateRejectsNonPDFMembers(t *testing.T) {
	path := makeZip(t, "a.pdf", "notes.txt", "img.png")

	_, err := Validate(path)
	var nonPDF *NonPDFError
	require.True(t, errors.As(err, &nonPDF))
	assert.Equal(t, []string{"notes.txt", "img.png"}, nonPDF.Members)
	assert.Equal(t, "bundle may only contain PDF files, found: notes.txt, img.png", err.Error())
}

func TestNonPDFErrorListsFirstFive(t *testing.T) {
	err := &NonPDFError{Members: []string{"1.txt", "2.txt", "3.txt", "4.txt", "5.txt", "6.txt"}}
	assert.Equal(t, "bundle may only contain PDF files, found: 1.txt, 2.txt, 3.txt, 4.txt, 5.txt ...", err.Error())
}

func TestValidateCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a zip"), 0o644))

	_, err := Validate(path)
	assert.ErrorIs(t, err, ErrNotZip)

	_, err = Extract(path, t.TempDir())
	assert.ErrorIs(t, err, ErrNotZip)
}

func TestExtract(t *testing.T) {
	path := makeZip(t, "sub/", "sub/a.pdf", "b.pdf")
	dest := t.TempDir()

	members, err := Extract(path, dest)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	data, err := os.ReadFile(filepath.Join(dest, "sub", "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 sub/a.pdf", string(data))
	assert.FileExists(t, filepath.Join(dest, "b.pdf"))
}

func TestExtractWritesNothingOnRejection(t *testing.T) {
	path := makeZip(t, "a.pdf", "evil.exe")
	dest := t.TempDir()

	_, err := Extract(path, dest)
	require.Error(t, err)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractRejectsPathTraversal(t *testing.T) {
	path := makeZip(t, "../escape.pdf")

	_, err := Extract(path, t.TempDir())
	assert.ErrorContains(t, err, "illegal path")
}

func TestExtractTemp(t *testing.T) {
	path := makeZip(t, "a.pdf")

	dir, cleanup, err := ExtractTemp(path)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "a.pdf"))

	cleanup()
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestIsZip(t *testing.T) {
	assert.True(t, IsZip("upload.ZIP"))
	assert.False(t, IsZip("input"))
	assert.False(t, IsZip("a.pdf"))
}
