package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"qcr/internal/config"
	"qcr/internal/domain"
	"qcr/internal/logging"
	"qcr/internal/qase"
	"qcr/internal/storage"
)

// session is what one command run needs to talk to the API
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	runID  string
	client *qase.Client
}

// openSession validates the config and builds the logger and API client
func openSession(cfg *config.Config, command string, requireProject bool) (*session, error) {
	if err := cfg.Validate(requireProject); err != nil {
		return nil, err
	}
	base, err := logging.New(cfg.Flags.Verbose, cfg.Flags.LogFile)
	if err != nil {
		return nil, err
	}
	logger, runID := logging.WithRun(base, command)
	logger.Info("run started",
		zap.String("project", cfg.ProjectCode),
		zap.Bool("dry_run", cfg.IsDryRun()))

	client := qase.NewClient(cfg.APIToken, cfg.ProjectCode,
		qase.WithBaseURL(cfg.BaseURL),
		qase.WithPageLimit(cfg.PageLimit),
		qase.WithLogger(logger),
	)
	return &session{cfg: cfg, logger: logger, runID: runID, client: client}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// saveReport writes the run report when --report is set
func (s *session) saveReport(meta domain.ReportMeta, outcomes []domain.RecordOutcome, duration time.Duration) error {
	path := s.cfg.Flags.ReportPath
	if path == "" {
		return nil
	}
	meta.RunID = s.runID
	meta.Project = s.cfg.ProjectCode
	meta.DryRun = s.cfg.IsDryRun()

	report := storage.NewReport(meta, outcomes, duration)
	if err := storage.NewJSONStorage(path).Save(report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	s.logger.Info("report saved", zap.String("path", path))
	color.Cyan("Report saved to %s (open it with: qcr review %s)", path, path)
	return nil
}
