// Package cmd implements the command-line interface for gridfill.
// It wires configuration, loading, filling, backup, writing and reporting
// into a single sequential run.
package cmd

import (
	"io"
	"time"

	"gridfill/internal/backup"
	"gridfill/internal/config"
	"gridfill/internal/interpolate"
	"gridfill/internal/log"
	"gridfill/internal/parser"
	"gridfill/internal/writer"
)

// executeFill runs Load -> Fill -> Write. Nothing is written unless the fill
// stage completes for every cell.
func executeFill(cfg *config.Config, stdout io.Writer) (err error) {
	startTime := time.Now()

	logger, err := newLogger(cfg, stdout)
	if err != nil {
		return err
	}
	defer logger.Close()

	defer func() {
		logger.LogError(err)
		logger.SetProcessingTime(time.Since(startTime))
		if !cfg.ShouldReport() {
			return
		}
		if reportErr := logger.WriteReport(); reportErr != nil && err == nil {
			err = reportErr
		}
	}()

	delimiter := cfg.DelimiterRune()

	g, err := parser.LoadGrid(cfg.InputPath, delimiter)
	if err != nil {
		return err
	}
	logger.SetGrid(g.Rows(), g.Cols(), g.MissingCount())

	result, err := interpolate.Fill(g)
	if err != nil {
		return err
	}
	logger.LogResult(result)

	if cfg.DryRun {
		return nil
	}

	backupManager := backup.NewBackupManager(cfg.Backup)
	backupPath, err := backupManager.BackupFile(cfg.OutputPath)
	if err != nil {
		return err
	}

	if err := writer.WriteGrid(result.Grid, cfg.OutputPath, delimiter); err != nil {
		// The original output is untouched, so the copy is redundant.
		_ = backupManager.CleanupBackup(backupPath)
		return err
	}
	logger.SetBackupPath(backupPath)

	return nil
}

func newLogger(cfg *config.Config, stdout io.Writer) (*log.Logger, error) {
	if cfg.LogFile != "" && cfg.ShouldReport() {
		return log.NewLogger(cfg)
	}
	return log.NewLoggerWithWriter(cfg, stdout), nil
}
