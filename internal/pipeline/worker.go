package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/routelens/internal/analysis"
	"github.com/dgallion1/routelens/internal/parser"
)

// Worker processes a single batch scan job.
type Worker struct {
	analyzer *analysis.Analyzer
	log      *slog.Logger
	stats    *ScanStats

	maxConcurrentFiles int
}

func NewWorker(analyzer *analysis.Analyzer, log *slog.Logger, maxFiles int) *Worker {
	if analyzer == nil {
		analyzer = analysis.New(nil)
	}
	if maxFiles <= 0 {
		maxFiles = 1
	}
	return &Worker{
		analyzer:           analyzer,
		log:                log,
		maxConcurrentFiles: maxFiles,
	}
}

// WithStats makes the worker record every scanned file into stats.
func (w *Worker) WithStats(stats *ScanStats) *Worker {
	w.stats = stats
	return w
}

// Process scans every file of the job with bounded concurrency. A file that
// fails is recorded and does not stop the others. Nothing is retried.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	defer job.ReleaseFiles()

	files := job.Files()
	if len(files) == 0 {
		job.AddError("no files to scan")
		job.SetStatus(StatusFailed, "scanning")
		return
	}

	job.SetStatus(StatusScanning, "scanning")
	log.Info("scan started", "files", len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxConcurrentFiles)

	failed := make([]bool, len(files))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := w.scanFile(gctx, f)
			if res.Error != "" {
				failed[i] = true
				log.Error("scan failed", "file", f.Name, "error", res.Error)
				job.AddError(fmt.Sprintf("%s: %s", f.Name, res.Error))
			}
			job.AddResult(res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("scan cancelled", "error", err)
		job.AddError(fmt.Sprintf("cancelled: %s", err))
		job.SetStatus(StatusFailed, "scanning")
		return
	}

	nFailed := 0
	for _, f := range failed {
		if f {
			nFailed++
		}
	}
	snap := job.Snapshot()
	log.Info("scan complete", "routes", snap.Progress.RoutesFound, "elements", snap.Progress.ElementsFound, "failed_files", nFailed)

	switch {
	case nFailed == len(files):
		job.SetStatus(StatusFailed, "scanning")
	case nFailed > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

func (w *Worker) scanFile(ctx context.Context, f File) (res FileResult) {
	start := time.Now()
	defer func() { w.stats.Record(time.Since(start), len(res.Routes), res.Error != "") }()

	res = FileResult{Filename: f.Name, ContentHash: ContentHashHex(f.Data)}
	if !parser.IsSupportedExtension(f.Name) {
		res.Error = "unsupported file type"
		return res
	}
	out, err := w.analyzer.Analyze(ctx, f.Name, f.Data)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Routes = out.Routes
	return res
}
