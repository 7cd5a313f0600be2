// Package bundle validates and unpacks ZIP uploads of payroll PDFs.
//
// A bundle may only contain PDFs, optionally in subfolders. Any other file
// rejects the whole bundle before anything is extracted.
package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/payroll-pdf-extractor/pkg/utils"
)

// maxListed is the number of offending members named in a NonPDFError.
const maxListed = 5

// ErrNotZip is returned when the file is not a readable ZIP archive.
var ErrNotZip = errors.New("not a valid ZIP file")

// NonPDFError lists the members that are not PDFs.
type NonPDFError struct {
	Members []string
}

func (e *NonPDFError) Error() string {
	shown := e.Members
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	msg := "bundle may only contain PDF files, found: " + strings.Join(shown, ", ")
	if len(e.Members) > maxListed {
		msg += " ..."
	}
	return msg
}

// Validate checks that every file in the archive at path is a PDF and
// returns the PDF member names in archive order.
func Validate(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotZip, path, err)
	}
	defer r.Close()

	return checkMembers(r.File)
}

// Extract validates the archive and unpacks it into dest. Nothing is
// written when validation fails.
func Extract(path, dest string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotZip, path, err)
	}
	defer r.Close()

	members, err := checkMembers(r.File)
	if err != nil {
		return nil, err
	}

	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", target, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return nil, err
		}
	}

	return members, nil
}

// ExtractTemp unpacks the archive into a new temporary directory. The caller
// must call cleanup when done.
func ExtractTemp(path string) (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", "payroll-bundle-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	if _, err := Extract(path, dir); err != nil {
		cleanup()
		return "", nil, err
	}
	return dir, cleanup, nil
}

// IsZip reports whether path names a ZIP file by extension.
func IsZip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

func checkMembers(files []*zip.File) ([]string, error) {
	var pdfs, others []string
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		if utils.IsPDFName(f.Name) {
			pdfs = append(pdfs, f.Name)
		} else {
			others = append(others, f.Name)
		}
	}
	if len(others) > 0 {
		return nil, &NonPDFError{Members: others}
	}
	return pdfs, nil
}

// safeJoin resolves name below dest and rejects entries escaping it.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("illegal path in bundle: %s", name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open member %s: %v", ErrNotZip, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("%w: read member %s: %v", ErrNotZip, f.Name, err)
	}
	return out.Close()
}
