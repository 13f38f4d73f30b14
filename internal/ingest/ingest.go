package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"govdoc/internal/domain/models"
	"govdoc/internal/domain/services"

	"golang.org/x/sync/errgroup"
)

// imageExtensions are the scan formats the OCR server accepts
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Result is the outcome of ingesting one file
type Result struct {
	Path     string
	Document *models.Document
	Err      error
}

// Summary totals a batch run
type Summary struct {
	Results   []Result
	Succeeded int
	Failed    int
}

// FindImages lists scan images under dir in lexical order, skipping hidden
// files and directories
func FindImages(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != dir && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if imageExtensions[strings.ToLower(filepath.Ext(name))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Run feeds every path through the workflow with at most workers scans in
// flight. Results keep the order of paths. A failed file does not stop the
// batch; cancellation does, and files not yet started are left out.
func Run(ctx context.Context, workflow services.WorkflowService, paths []string, workers int, logger *slog.Logger) *Summary {
	if workers < 1 {
		workers = 1
	}

	results := make([]*Result, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			doc, err := workflow.ProcessNewScan(ctx, path)
			results[i] = &Result{Path: path, Document: doc, Err: err}
			if err != nil {
				logger.Warn("ingest failed", "path", path, "error", err)
				return nil
			}
			logger.Info("ingested", "path", path, "document_id", doc.ID, "title", doc.Title)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	summary := &Summary{Results: make([]Result, 0, len(paths))}
	for _, r := range results {
		if r == nil {
			continue
		}
		summary.Results = append(summary.Results, *r)
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}
