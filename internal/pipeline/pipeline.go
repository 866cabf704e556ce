// =============================================================================
// Kannada P&L Generator - Pipeline Module
// =============================================================================
//
// This module runs one report generation from a date range to the final
// workbook. Stages run strictly in order and each one may abort the run;
// an aborted run leaves the files of later stages untouched.
//
// PIPELINE:
//   1. Validate the date range (before any network call)
//   2. Export the Profit and Loss XML from Tally
//   3. Sync the ledger translation table with Tally's ledger list
//   4. Extract and translate income and expense ledgers
//   5. Fill the body template
//   6. Stack header, body and footer into the final report
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/composer"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/config"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/extractor"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/ledgersync"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/logging"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/period"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/tally"
	"github.com/ginjaninja78/tally-kannada-pnl/pkg/utils"
)

// ErrAborted is wrapped by every error that stops a run.
var ErrAborted = errors.New("report generation aborted")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// Range is the validated date range. Zero if validation failed.
	Range period.Range

	// MonthYear is the Kannada month label printed on the report.
	MonthYear string

	// ExportFile is the saved Tally XML.
	ExportFile string

	// BodyFile is the filled body workbook.
	BodyFile string

	// OutputFile is the final report. Empty if the run failed.
	OutputFile string

	// Success indicates whether every stage completed.
	Success bool

	// Error wraps ErrAborted and the failing stage's error.
	Error error

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains statistics about a run.
type Stats struct {
	// LedgersFetched is the size of Tally's ledger list.
	LedgersFetched int

	// LedgersAdded is the number of names new to the translation table.
	LedgersAdded int

	// IncomeParsed and ExpenseParsed count ledgers found in the export.
	IncomeParsed  int
	ExpenseParsed int

	// IncomeWritten and ExpenseWritten count ledgers that had a
	// translation and were written to the body.
	IncomeWritten  int
	ExpenseWritten int

	// ReportRows is the row count of the final report.
	ReportRows int

	// SkippedMerges and SkippedStyles count formatting the composer
	// could not carry over.
	SkippedMerges int
	SkippedStyles int

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline wires the stages to one configuration.
type Pipeline struct {
	cfg    *config.Config
	client *tally.Client
	logger logging.Logger
}

// New creates a Pipeline talking to the Tally endpoint in cfg.
func New(cfg *config.Config, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Pipeline{
		cfg:    cfg,
		client: tally.NewClient(cfg.Tally.URL, cfg.Tally.ProbeTimeout, cfg.Tally.RequestTimeout, logger),
		logger: logger,
	}
}

func (p *Pipeline) syncer() *ledgersync.Syncer {
	return ledgersync.NewSyncer(
		p.client,
		p.cfg.Resolve(p.cfg.Paths.MappingFile),
		p.cfg.Resolve(p.cfg.Paths.SyncLog),
		p.logger,
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run generates the report for the DD-MM-YYYY dates from and to.
func (p *Pipeline) Run(ctx context.Context, from, to string) Result {
	startTime := time.Now()
	var result Result

	abort := func(stage string, err error) Result {
		result.Error = fmt.Errorf("%w: %s: %w", ErrAborted, stage, err)
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	// =========================================================================
	// STEP 1: VALIDATE DATE RANGE
	// =========================================================================

	r, err := period.ParseRange(from, to)
	if err != nil {
		return abort("date range", err)
	}
	result.Range = r

	// =========================================================================
	// STEP 2: EXPORT PROFIT AND LOSS
	// =========================================================================

	exporter := tally.NewExporter(p.client, p.cfg.Resolve(p.cfg.Paths.ExportFile), p.logger)
	export, err := exporter.Export(ctx, r)
	if err != nil {
		return abort("export", err)
	}
	result.ExportFile = export.Path
	result.MonthYear = period.MonthYear(export.ToDate)

	// =========================================================================
	// STEP 3: SYNC LEDGER TABLE
	// =========================================================================

	table, syncRes, err := p.syncer().Sync(ctx)
	if err != nil {
		return abort("ledger sync", err)
	}
	result.Stats.LedgersFetched = syncRes.Fetched
	result.Stats.LedgersAdded = len(syncRes.Added)

	// =========================================================================
	// STEP 4: EXTRACT AND TRANSLATE
	// =========================================================================

	labels := extractor.SectionLabels{
		Income:  p.cfg.Sections.Income,
		Expense: p.cfg.Sections.Expense,
	}
	report, err := extractor.ParseFile(export.Path, labels)
	if err != nil {
		return abort("extract", err)
	}
	result.Stats.IncomeParsed = len(report.Income)
	result.Stats.ExpenseParsed = len(report.Expense)

	translated := extractor.TranslateReport(report, table)
	result.Stats.IncomeWritten = len(translated.Income)
	result.Stats.ExpenseWritten = len(translated.Expense)

	if dropped := len(report.Income) + len(report.Expense) - len(translated.Income) - len(translated.Expense); dropped > 0 {
		p.logger.Warn("%d ledger(s) had no translation and were left out", dropped)
	}
	p.logger.Info("Extracted %d income and %d expense ledger(s)", len(translated.Income), len(translated.Expense))

	// =========================================================================
	// STEP 5: FILL BODY TEMPLATE
	// =========================================================================

	for _, tpl := range []string{p.cfg.Paths.BodyTemplate, p.cfg.Paths.HeaderTemplate, p.cfg.Paths.FooterTemplate} {
		if path := p.cfg.Resolve(tpl); !utils.FileExists(path) {
			return abort("body", fmt.Errorf("template not found: %s", path))
		}
	}

	bodyPath := p.cfg.Resolve(p.cfg.Paths.BodyOutput)
	err = composer.Body(composer.BodyOptions{
		Template: p.cfg.Resolve(p.cfg.Paths.BodyTemplate),
		Output:   bodyPath,
		Layout:   p.cfg.Layout,
		Logger:   p.logger,
	}, translated.Income, translated.Expense, result.MonthYear)
	if err != nil {
		return abort("body", err)
	}
	result.BodyFile = bodyPath

	// =========================================================================
	// STEP 6: CONCATENATE FRAGMENTS
	// =========================================================================

	outputPath := p.cfg.Resolve(p.cfg.Paths.FinalOutput)
	stats, err := composer.Concatenate(composer.ConcatOptions{
		Output:          outputPath,
		Placeholder:     p.cfg.Layout.Placeholder,
		HeaderWithMonth: p.cfg.Resolve(p.cfg.Paths.HeaderWithMonth),
		Logger:          p.logger,
	}, result.MonthYear,
		composer.Fragment{Name: "header", Path: p.cfg.Resolve(p.cfg.Paths.HeaderTemplate), FillMonth: true},
		composer.Fragment{Name: "body", Path: bodyPath},
		composer.Fragment{Name: "footer", Path: p.cfg.Resolve(p.cfg.Paths.FooterTemplate)},
	)
	if err != nil {
		return abort("concatenate", err)
	}
	result.Stats.ReportRows = stats.TotalRows
	result.Stats.SkippedMerges = stats.SkippedMerges
	result.Stats.SkippedStyles = stats.SkippedStyles

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.OutputFile = outputPath
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// Sync runs only the ledger sync stage.
func (p *Pipeline) Sync(ctx context.Context) (ledgersync.Result, error) {
	_, res, err := p.syncer().Sync(ctx)
	if err != nil {
		return res, fmt.Errorf("%w: ledger sync: %w", ErrAborted, err)
	}
	return res, nil
}
