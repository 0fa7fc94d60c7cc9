// Package corpus reads submission directories into (owner, text) pairs
package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// ErrNotUTF8 is returned for a plain file that is not valid UTF-8
var ErrNotUTF8 = errors.New("file is not valid UTF-8")

// File is one submission; Name is the file name and serves as owner ID
type File struct {
	Name     string
	Contents string
}

// ReadDir returns every non-directory entry of dir in name order.
// Any unreadable entry aborts the whole read so no partial corpus is returned.
func ReadDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}

		contents, err := readFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: entry.Name(), Contents: contents})
	}

	log.Debug().Str("dir", dir).Int("files", len(files)).Msg("Read corpus directory")
	return files, nil
}

// Texts returns only the contents of files
func Texts(files []File) []string {
	texts := make([]string, 0, len(files))
	for _, f := range files {
		texts = append(texts, f.Contents)
	}
	return texts
}

func readFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrNotUTF8)
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text from %s: %w", path, err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("failed to read extracted text from %s: %w", path, err)
	}
	return SanitizeText(buf.String()), nil
}

// SanitizeText drops NUL and other control characters some PDF extractors emit,
// keeping common whitespace.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")

	r := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			r = append(r, ch)
			continue
		}
		if ch < 0x20 {
			continue
		}
		r = append(r, ch)
	}
	return strings.TrimSpace(string(r))
}
