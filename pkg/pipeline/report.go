package pipeline

import (
	"context"
	"fmt"

	"github.com/ruslano69/flightprep/pkg/audit"
)

// ReportAccuracy вычисляет долю совпадений предсказанных и фактических
// меток и фиксирует ее в audit логе. Утилита для шага оценки модели;
// в контракт подготовки данных не входит, результат ниже по потоку
// не потребляется.
func ReportAccuracy(ctx context.Context, predicted, actual []string, log audit.Logger) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("report accuracy: predicted and actual label counts differ: %d != %d",
			len(predicted), len(actual))
	}
	if len(actual) == 0 {
		return 0, fmt.Errorf("report accuracy: no labels to compare")
	}

	matches := 0
	for i := range actual {
		if predicted[i] == actual[i] {
			matches++
		}
	}
	accuracy := float64(matches) / float64(len(actual))

	entry := audit.NewEntry(audit.OpReport, audit.StatusSuccess).
		WithResource("test_labels").
		WithRecordsAffected(int64(len(actual))).
		WithMetadata("accuracy", fmt.Sprintf("%.3f", accuracy))
	if err := log.Log(ctx, entry); err != nil {
		return 0, fmt.Errorf("report accuracy: audit: %w", err)
	}

	return accuracy, nil
}
