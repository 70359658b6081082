package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
	rpaUseCase "github.com/allisson/orchestrator/internal/rpa/usecase"
)

// DefaultExportKey names the exported object when no key is given.
func DefaultExportKey(report rpaDomain.Report, now time.Time) string {
	return fmt.Sprintf("rpa_%s_%s.csv", report, now.UTC().Format("20060102"))
}

// RunExportEvents writes an audit report as CSV to a gocloud bucket URL such as
// file:///var/exports or mem://.
func RunExportEvents(
	ctx context.Context,
	useCase rpaUseCase.RPAUseCase,
	logger *slog.Logger,
	reportName, bucketURL, key string,
	io IOTuple,
) error {
	report, err := rpaDomain.ParseReport(reportName)
	if err != nil {
		return err
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return fmt.Errorf("failed to open bucket: %w", err)
	}
	defer func() {
		if err := bucket.Close(); err != nil {
			logger.Error("failed to close bucket", slog.Any("error", err))
		}
	}()

	if key == "" {
		key = DefaultExportKey(report, time.Now())
	}

	rows, err := exportToBucket(ctx, useCase, bucket, report, key)
	if err != nil {
		return err
	}

	logger.Info("audit report exported",
		slog.String("report", string(report)),
		slog.String("key", key),
		slog.Int("rows", rows))
	_, _ = fmt.Fprintf(io.Writer, "Exported %d rows to %s\n", rows, key)
	return nil
}

func exportToBucket(
	ctx context.Context,
	useCase rpaUseCase.RPAUseCase,
	bucket *blob.Bucket,
	report rpaDomain.Report,
	key string,
) (int, error) {
	writerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer, err := bucket.NewWriter(writerCtx, key, &blob.WriterOptions{
		ContentType: "text/csv; charset=utf-8",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to open object writer: %w", err)
	}

	rows, err := useCase.Export(ctx, report, writer)
	if err != nil {
		// Cancelling before Close discards the partial object.
		cancel()
		_ = writer.Close()
		return 0, fmt.Errorf("failed to export events: %w", err)
	}

	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to write object: %w", err)
	}
	return rows, nil
}
