package tally

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ginjaninja78/tally-kannada-pnl/internal/logging"
	"github.com/ginjaninja78/tally-kannada-pnl/internal/period"
	"github.com/ginjaninja78/tally-kannada-pnl/pkg/utils"
)

// ProfitAndLossSource is the part of Client the Exporter needs.
type ProfitAndLossSource interface {
	Ping(ctx context.Context) error
	ExportProfitAndLoss(ctx context.Context, r period.Range) ([]byte, error)
}

// ExportResult describes a saved export.
type ExportResult struct {
	// Path is where the raw XML was written.
	Path string

	// ToDate is the end of the requested range. It sets the report month.
	ToDate time.Time

	// Size is the number of bytes written.
	Size int
}

// Exporter fetches the Profit and Loss XML and persists it verbatim.
type Exporter struct {
	source ProfitAndLossSource
	path   string
	logger logging.Logger
}

// NewExporter creates an Exporter writing to path.
func NewExporter(source ProfitAndLossSource, path string, logger logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Exporter{source: source, path: path, logger: logger}
}

// Export probes Tally, requests the report for r and overwrites the export
// file with the response. Nothing is written when Tally is unreachable.
func (e *Exporter) Export(ctx context.Context, r period.Range) (*ExportResult, error) {
	e.logger.Info("Checking connection to Tally...")
	if err := e.source.Ping(ctx); err != nil {
		return nil, err
	}
	e.logger.Info("Tally connection successful")

	e.logger.Info("Requesting Profit & Loss from %s", r)
	body, err := e.source.ExportProfitAndLoss(ctx, r)
	if err != nil {
		return nil, err
	}

	if err := utils.EnsureParentDir(e.path); err != nil {
		return nil, err
	}
	if err := os.WriteFile(e.path, body, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	e.logger.Info("Profit & Loss XML saved -> %s", e.path)
	return &ExportResult{Path: e.path, ToDate: r.To, Size: len(body)}, nil
}
