// Package app wires the directory reader, the matching engine and the
// report writers into a single command-line run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/RishiKendai/overlap/internal/corpus"
	"github.com/RishiKendai/overlap/internal/plagiarism"
	"github.com/RishiKendai/overlap/internal/report"
	"github.com/rs/zerolog/log"
)

// Settings are the options of one run
type Settings struct {
	UntrustedDir string
	TrustedDir   string
	IgnoreDir    string

	Sensitivity int
	Similarity  int
	Metric      string

	OutputCLI  bool
	OutputHTML bool
	OpenHTML   bool
	OutDir     string

	// Workers sizes the comparison pool; zero runs the sweeps sequentially
	Workers int
}

// Validate checks settings before any file is read
func (s Settings) Validate() error {
	if s.UntrustedDir == "" {
		return errors.New("untrusted directory is required")
	}
	if s.Sensitivity < 1 {
		return plagiarism.ErrInvalidSensitivity
	}
	if s.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	_, err := plagiarism.ParseMetric(s.Metric, s.Similarity)
	return err
}

// Outcome is what a run produced
type Outcome struct {
	Untrusted  []plagiarism.PlagiarismResult
	Trusted    []plagiarism.PlagiarismResult
	Highlights []plagiarism.Highlight
	HTMLPath   string
}

// Run reads the directories, sweeps both partitions and writes the requested reports
func Run(ctx context.Context, s Settings, stdout io.Writer) (*Outcome, error) {
	start := time.Now()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	metric, _ := plagiarism.ParseMetric(s.Metric, s.Similarity)

	untrustedFiles, err := corpus.ReadDir(s.UntrustedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read untrusted texts: %w", err)
	}

	var ignored []string
	if s.IgnoreDir != "" {
		ignoreFiles, err := corpus.ReadDir(s.IgnoreDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read ignored texts: %w", err)
		}
		ignored = corpus.Texts(ignoreFiles)
	}

	db, err := plagiarism.NewDatabase(s.Sensitivity, metric, ignored)
	if err != nil {
		return nil, err
	}
	for _, f := range untrustedFiles {
		db.AddUntrustedText(f.Name, f.Contents)
	}

	if s.TrustedDir != "" {
		trustedFiles, err := corpus.ReadDir(s.TrustedDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read trusted texts: %w", err)
		}
		for _, f := range trustedFiles {
			db.AddTrustedText(f.Name, f.Contents)
		}
	}

	var pool *plagiarism.WorkerPool
	if s.Workers > 0 {
		pool = plagiarism.NewWorkerPool(ctx, s.Workers)
		defer pool.Close()
	}

	untrusted, trusted, err := plagiarism.Sweeps(ctx, db, pool)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{Untrusted: untrusted, Trusted: trusted}

	if s.OutputCLI {
		if err := report.PrintUntrusted(stdout, untrusted); err != nil {
			return nil, fmt.Errorf("failed to print untrusted report: %w", err)
		}
		if err := report.PrintTrusted(stdout, trusted); err != nil {
			return nil, fmt.Errorf("failed to print trusted report: %w", err)
		}
	}

	if s.OutputHTML {
		all := append(append([]plagiarism.PlagiarismResult(nil), untrusted...), trusted...)
		outcome.Highlights = db.HighlightAll(all)

		outcome.HTMLPath, err = report.WriteHTML(s.OutDir, outcome.Highlights)
		if err != nil {
			return nil, err
		}
		if s.OpenHTML {
			if err := report.Open(outcome.HTMLPath); err != nil {
				return nil, err
			}
		}
	}

	log.Info().
		Int("untrusted", len(db.UntrustedOwners())).
		Int("trusted", len(db.TrustedOwners())).
		Int("ignoredFragments", db.IgnoredFragments()).
		Int("untrustedResults", len(untrusted)).
		Int("trustedResults", len(trusted)).
		Dur("duration", time.Since(start)).
		Msg("Plagiarism check completed")

	return outcome, nil
}
