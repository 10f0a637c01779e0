// File: pkg/runner/runner.go

// Package runner оркестрирует полный запуск подготовки данных:
// загрузка датасета, четыре стадии пайплайна, экспорт подвыборок,
// публикация результата и уведомления.
package runner

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/ruslano69/flightprep/pkg/audit"
	"github.com/ruslano69/flightprep/pkg/brokers"
	"github.com/ruslano69/flightprep/pkg/dataset"
	"github.com/ruslano69/flightprep/pkg/pipeline"
	"github.com/ruslano69/flightprep/pkg/resultlog"
	"github.com/ruslano69/flightprep/pkg/retry"
)

// Stats - итоги запуска пайплайна.
type Stats struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration

	RowsLoaded  int
	RowsCleaned int
	RowsTrain   int
	RowsTest    int

	// Checksums - xxh3 хеши экспортированных файлов по имени подвыборки
	Checksums map[string]string
}

// Runner выполняет запуск пайплайна по конфигурации.
type Runner struct {
	cfg       *RunConfig
	log       audit.Logger
	publisher *resultlog.RedisPublisher
	notifier  brokers.Notifier
	retryer   *retry.Retryer
}

// New создает Runner и его внешние зависимости по конфигурации.
func New(cfg *RunConfig) (*Runner, error) {
	log, err := audit.New(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit logger: %w", err)
	}

	retryer, err := retry.NewRetryer(cfg.Retry)
	if err != nil {
		log.Close()
		return nil, err
	}

	r := &Runner{cfg: cfg, log: log, retryer: retryer}
	if cfg.ResultLog.Enabled {
		r.publisher = resultlog.NewRedisPublisher(cfg.ResultLog)
	}
	if cfg.Notify.Enabled {
		r.notifier = brokers.NewKafkaNotifier(cfg.Notify)
	}
	return r, nil
}

// Close закрывает audit лог и соединения с Redis и Kafka.
func (r *Runner) Close() error {
	var firstErr error
	if err := r.log.Close(); err != nil {
		firstErr = err
	}
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.notifier != nil {
		if err := r.notifier.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Execute выполняет полный запуск: загрузка, пайплайн, экспорт, публикация.
//
// Результат публикуется в Redis и Kafka независимо от успеха самого
// запуска, чтобы оркестратор видел и упавшие запуски.
func (r *Runner) Execute(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		StartedAt: time.Now(),
		Checksums: make(map[string]string),
	}

	execErr := r.execute(ctx, stats)

	stats.FinishedAt = time.Now()
	stats.Duration = stats.FinishedAt.Sub(stats.StartedAt)

	if err := r.publishResult(ctx, stats, execErr); err != nil {
		// публикация не должна маскировать ошибку самого запуска
		if execErr == nil {
			execErr = err
		} else {
			_ = r.log.LogFailure(ctx, audit.OpPublish, r.cfg.Name, err)
		}
	}

	return stats, execErr
}

// execute выполняет загрузку, пайплайн и экспорт, наполняя stats.
func (r *Runner) execute(ctx context.Context, stats *Stats) error {
	params, err := r.cfg.LoadParams()
	if err != nil {
		return err
	}

	df, err := r.loadSource(ctx)
	if err != nil {
		return err
	}
	stats.RowsLoaded = df.Nrow()

	split, err := pipeline.Run(ctx, df, params, r.log)
	if err != nil {
		_ = r.log.LogFailure(ctx, audit.OpSplit, r.cfg.Name, err)
		return err
	}
	stats.RowsTrain = split.XTrain.Nrow()
	stats.RowsTest = split.XTest.Nrow()
	stats.RowsCleaned = stats.RowsTrain + stats.RowsTest

	return r.export(ctx, split, stats)
}

// loadSource загружает исходный датасет с audit записью.
func (r *Runner) loadSource(ctx context.Context) (dataframe.DataFrame, error) {
	started := time.Now()

	df, err := dataset.Load(ctx, r.cfg.Source)
	if err != nil {
		_ = r.log.LogFailure(ctx, audit.OpLoad, r.cfg.Source.Path, err)
		return dataframe.DataFrame{}, err
	}

	entry := audit.NewEntry(audit.OpLoad, audit.StatusSuccess).
		WithPipeline(r.cfg.Name).
		WithResource(r.cfg.Source.Path).
		WithRecordsAffected(int64(df.Nrow())).
		WithDuration(time.Since(started))
	_ = r.log.Log(ctx, entry)

	return df, nil
}

// export выгружает четыре подвыборки и собирает их контрольные суммы.
func (r *Runner) export(ctx context.Context, split pipeline.Split, stats *Stats) error {
	outputs := []struct {
		name string
		df   dataframe.DataFrame
	}{
		{"train_x", split.XTrain},
		{"test_x", split.XTest},
		{"train_y", split.YTrain},
		{"test_y", split.YTest},
	}

	for _, out := range outputs {
		target := r.outputPath(out.name)

		checksum, err := dataset.Write(ctx, out.df, target)
		if err != nil {
			_ = r.log.LogFailure(ctx, audit.OpExport, target, err)
			return fmt.Errorf("failed to export %s: %w", out.name, err)
		}
		stats.Checksums[out.name] = checksum

		entry := audit.NewEntry(audit.OpExport, audit.StatusSuccess).
			WithPipeline(r.cfg.Name).
			WithResource(target).
			WithRecordsAffected(int64(out.df.Nrow())).
			WithMetadata("checksum", checksum)
		_ = r.log.Log(ctx, entry)
	}

	return nil
}

// outputPath строит путь файла подвыборки в каталоге выгрузки.
func (r *Runner) outputPath(name string) string {
	file := name + "." + r.cfg.Output.Format
	if dataset.IsS3Path(r.cfg.Output.Dir) {
		// для S3 ключей разделитель всегда "/"
		return r.cfg.Output.Dir + "/" + path.Clean(file)
	}
	return filepath.Join(r.cfg.Output.Dir, file)
}

// publishResult отправляет итог запуска в Redis и Kafka.
func (r *Runner) publishResult(ctx context.Context, stats *Stats, execErr error) error {
	if r.publisher == nil && r.notifier == nil {
		return nil
	}

	result := resultlog.RunResult{
		PipelineName: r.cfg.Name,
		Status:       "success",
		StartedAt:    stats.StartedAt,
		FinishedAt:   stats.FinishedAt,
		DurationMs:   stats.Duration.Milliseconds(),
		RowsLoaded:   stats.RowsLoaded,
		RowsCleaned:  stats.RowsCleaned,
		RowsTrain:    stats.RowsTrain,
		RowsTest:     stats.RowsTest,
		Checksums:    stats.Checksums,
	}
	if execErr != nil {
		result.Status = "failed"
		errStr := execErr.Error()
		result.Error = &errStr
	}

	if r.publisher != nil {
		err := r.retryer.Do(ctx, func(ctx context.Context) error {
			return r.publisher.Publish(ctx, result)
		})
		if err != nil {
			return err
		}
		_ = r.log.LogSuccess(ctx, audit.OpPublish, "redis", 1)
	}

	if r.notifier != nil {
		payload, err := result.Marshal()
		if err != nil {
			return err
		}
		err = r.retryer.Do(ctx, func(ctx context.Context) error {
			return r.notifier.Notify(ctx, r.cfg.Name, payload)
		})
		if err != nil {
			return err
		}
		_ = r.log.LogSuccess(ctx, audit.OpPublish, "kafka", 1)
	}

	return nil
}
