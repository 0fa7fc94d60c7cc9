package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RishiKendai/overlap/internal/plagiarism"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultOutputDir is where the HTML report goes unless configured otherwise
	DefaultOutputDir = "./www"
	ReportFile       = "report.html"
	StylesheetFile   = "style.css"
)

//go:embed assets/report.html.tmpl assets/style.css
var assets embed.FS

var pageTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"riskClass": func(risk string) string { return strings.ReplaceAll(risk, " ", "-") },
}).ParseFS(assets, "assets/report.html.tmpl"))

type page struct {
	Summary plagiarism.Summary
	Entries []plagiarism.Highlight
}

// SortHighlights orders entries by descending number of matching fragments, stable
func SortHighlights(entries []plagiarism.Highlight) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Matches > entries[j].Matches
	})
}

// WriteHTML renders entries into dir/report.html next to its stylesheet and
// returns the report path. dir is created when missing.
func WriteHTML(dir string, entries []plagiarism.Highlight) (string, error) {
	if dir == "" {
		dir = DefaultOutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	css, err := assets.ReadFile("assets/style.css")
	if err != nil {
		return "", fmt.Errorf("failed to read stylesheet: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, StylesheetFile), css, 0o644); err != nil {
		return "", fmt.Errorf("failed to write stylesheet: %w", err)
	}

	path := filepath.Join(dir, ReportFile)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	sorted := append([]plagiarism.Highlight(nil), entries...)
	SortHighlights(sorted)

	data := page{Summary: plagiarism.Summarize(sorted), Entries: sorted}
	if err := pageTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("results", len(sorted)).Msg("HTML report written")
	return path, nil
}
