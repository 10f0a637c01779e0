package pipeline

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Split содержит результат разбиения на обучающую и тестовую
// подвыборки: таблицы признаков без целевой колонки и одноколоночные
// таблицы меток. Порядок фиксирован: train features, test features,
// train labels, test labels.
type Split struct {
	XTrain dataframe.DataFrame
	XTest  dataframe.DataFrame
	YTrain dataframe.DataFrame
	YTest  dataframe.DataFrame
}

// SplitTrainTest ограничивает таблицу списком features и случайно
// разбивает строки на train/test подвыборки.
//
// Назначение строки — независимое бернуллиевское испытание с
// вероятностью train_fraction: итоговые доли приближенные, а не
// точные. Разбиение полное и непересекающееся — каждая строка входит
// ровно в одну подвыборку. Воспроизводимость обеспечивает только
// явный Params.Seed; без него используется seed от текущего времени.
func SplitTrainTest(df dataframe.DataFrame, p *Params) (Split, error) {
	if p.TrainFraction <= 0 || p.TrainFraction >= 1 {
		return Split{}, &ConfigurationError{
			Option: "train_fraction",
			Reason: fmt.Sprintf("must be strictly between 0 and 1, got %v", p.TrainFraction),
		}
	}
	if !containsString(p.Features, p.TargetColumn) {
		return Split{}, &ConfigurationError{
			Option: "target_column",
			Reason: fmt.Sprintf("column %q must be listed in features", p.TargetColumn),
		}
	}
	if !hasNonTargetFeature(p.Features, p.TargetColumn) {
		return Split{}, &ConfigurationError{
			Option: "features",
			Reason: "at least one feature besides the target column is required",
		}
	}
	for _, name := range p.Features {
		if !hasColumn(df, name) {
			return Split{}, &SchemaError{Stage: "split_data", Column: name}
		}
	}

	data := df.Select(p.Features)
	if data.Err != nil {
		return Split{}, fmt.Errorf("split data: %w", data.Err)
	}

	seed := time.Now().UnixNano()
	if p.Seed != nil {
		seed = *p.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	nrow := data.Nrow()
	trainIdx := make([]int, 0, nrow)
	testIdx := make([]int, 0, nrow)
	for r := 0; r < nrow; r++ {
		if rng.Float64() < p.TrainFraction {
			trainIdx = append(trainIdx, r)
		} else {
			testIdx = append(testIdx, r)
		}
	}

	dataTrain := data.Subset(trainIdx)
	if dataTrain.Err != nil {
		return Split{}, fmt.Errorf("split data: train subset: %w", dataTrain.Err)
	}
	dataTest := data.Subset(testIdx)
	if dataTest.Err != nil {
		return Split{}, fmt.Errorf("split data: test subset: %w", dataTest.Err)
	}

	split := Split{}
	var err error

	if split.XTrain, err = dropColumns(dataTrain, p.TargetColumn); err != nil {
		return Split{}, fmt.Errorf("split data: X_train: %w", err)
	}
	if split.XTest, err = dropColumns(dataTest, p.TargetColumn); err != nil {
		return Split{}, fmt.Errorf("split data: X_test: %w", err)
	}

	split.YTrain = dataTrain.Select([]string{p.TargetColumn})
	if split.YTrain.Err != nil {
		return Split{}, fmt.Errorf("split data: y_train: %w", split.YTrain.Err)
	}
	split.YTest = dataTest.Select([]string{p.TargetColumn})
	if split.YTest.Err != nil {
		return Split{}, fmt.Errorf("split data: y_test: %w", split.YTest.Err)
	}

	return split, nil
}
