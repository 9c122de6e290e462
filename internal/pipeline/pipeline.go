package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/category"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/importer"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/upload"
)

// Stage is a state of a run. Runs move through the stages in declaration order
// and end in StageDone or StageErrored.
type Stage string

const (
	StageInit           Stage = "init"
	StageLoaded         Stage = "loaded"
	StageNormalized     Stage = "normalized"
	StageCategoryMapped Stage = "category_mapped"
	StageDeduplicated   Stage = "deduplicated"
	StageUploaded       Stage = "uploaded"
	StagePersisted      Stage = "persisted"
	StageDone           Stage = "done"
	StageErrored        Stage = "errored"
)

// StageError reports the stage a run failed to reach.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Importer interface {
	Import(bank importer.Bank, r io.Reader) ([]transaction.Record, error)
}

type CategoryMapper interface {
	Build(ctx context.Context) category.Map
}

type Ledger interface {
	Deduplicate(ctx context.Context, records []transaction.Record) (*transaction.DedupResult, error)
	Persist(ctx context.Context, runDate time.Time, records []transaction.Record) (string, error)
}

type Uploader interface {
	Upload(ctx context.Context, records []transaction.Record, categories upload.Categories) (*upload.Result, error)
}

type Options struct {
	InputPath string
	Bank      importer.Bank
	RunDate   time.Time
	// PersistOnUploadFailure keeps the local record of a run whose upload failed.
	PersistOnUploadFailure bool
}

type Pipeline struct {
	importer Importer
	mapper   CategoryMapper
	ledger   Ledger
	uploader Uploader
	logger   *slog.Logger
	opts     Options
}

func New(imp Importer, mapper CategoryMapper, ledger Ledger, uploader Uploader, logger *slog.Logger, opts Options) *Pipeline {
	return &Pipeline{
		importer: imp,
		mapper:   mapper,
		ledger:   ledger,
		uploader: uploader,
		logger:   logger,
		opts:     opts,
	}
}

type Result struct {
	Stage      Stage
	Parsed     int
	New        int
	Duplicates int
	Upload     *upload.Result
	UploadErr  error
	OutputPath string
}

// Run performs one import. Every step blocks until done; the first failure aborts the run
// without undoing earlier steps.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{Stage: StageInit}

	fail := func(stage Stage, err error) (*Result, error) {
		res.Stage = StageErrored
		p.logger.Error("run aborted", "stage", stage, "error", err)

		return res, &StageError{Stage: stage, Err: err}
	}

	raw, err := os.ReadFile(p.opts.InputPath)
	if err != nil {
		return fail(StageLoaded, fmt.Errorf("reading input: %w", err))
	}

	p.advance(res, StageLoaded, "input", p.opts.InputPath, "bytes", len(raw))

	records, err := p.importer.Import(p.opts.Bank, bytes.NewReader(raw))
	if err != nil {
		return fail(StageNormalized, fmt.Errorf("parsing input: %w", err))
	}

	res.Parsed = len(records)
	p.advance(res, StageNormalized, "records", len(records))

	categories := p.mapper.Build(ctx)
	p.advance(res, StageCategoryMapped, "payees", len(categories))

	dedup, err := p.ledger.Deduplicate(ctx, records)
	if err != nil {
		return fail(StageDeduplicated, err)
	}

	res.New = len(dedup.New)
	res.Duplicates = len(dedup.Duplicates)
	p.advance(res, StageDeduplicated, "new", res.New, "duplicates", res.Duplicates)

	uploaded, err := p.uploader.Upload(ctx, dedup.New, categories)
	if err != nil {
		res.UploadErr = err
		if !p.opts.PersistOnUploadFailure {
			return fail(StageUploaded, err)
		}

		p.logger.Warn("upload failed, keeping local record of the run", "error", err)
	}

	res.Upload = uploaded
	p.advance(res, StageUploaded, "failed", err != nil)

	path, err := p.ledger.Persist(ctx, p.opts.RunDate, dedup.New)
	if err != nil {
		return fail(StagePersisted, err)
	}

	res.OutputPath = path
	p.advance(res, StagePersisted, "output", path)

	p.advance(res, StageDone)

	return res, nil
}

func (p *Pipeline) advance(res *Result, stage Stage, attrs ...any) {
	res.Stage = stage
	p.logger.Info("stage reached", append([]any{"stage", stage}, attrs...)...)
}
