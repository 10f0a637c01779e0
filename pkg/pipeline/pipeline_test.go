package pipeline

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/go-gota/gota/dataframe"

	"github.com/ruslano69/flightprep/pkg/audit"
)

// rawFlights строит сырой датасет рейсов с n валидными строками
// и несколькими строками, которые чистка должна отбросить.
func rawFlights(n int) dataframe.DataFrame {
	records := [][]string{
		{"FlightDate", "Reporting_Airline", "Origin", "DepTime", "DepDelayMinutes"},
	}
	for i := 0; i < n; i++ {
		records = append(records, []string{
			"2016-0" + strconv.Itoa(i%9+1) + "-15",
			"aa",
			"JFK",
			strconv.Itoa(i%24*100 + 45),
			strconv.Itoa(i % 60),
		})
	}
	// неполная строка и невалидный код авиакомпании
	records = append(records,
		[]string{"2016-01-01", "DL", "", "NaN", "5"},
		[]string{"2016-01-02", "DAL", "LGA", "0710", "0"},
	)
	return dataframe.LoadRecords(records, dataframe.DetectTypes(true))
}

func runParams(seed int64) *Params {
	return &Params{
		Columns:       []string{"FlightDate", "Reporting_Airline", "DepTime", "DepDelayMinutes"},
		Features:      []string{"DepHour", "DepMonth", "DepDelayMinutes"},
		TargetColumn:  "DepDelayMinutes",
		TrainFraction: 0.8,
		Seed:          &seed,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	df := rawFlights(100)
	p := runParams(42)

	split, err := Run(context.Background(), df, p, audit.NewNullLogger())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Origin отброшен селектором вместе с неполной строкой и
	// невалидным кодом — остались только валидные строки
	total := split.XTrain.Nrow() + split.XTest.Nrow()
	if total != 100 {
		t.Errorf("Expected 100 rows after cleaning, got %d", total)
	}

	for _, name := range split.XTrain.Names() {
		switch name {
		case "DepTime", "FlightDate", "Reporting_Airline", "Origin", "DepDelayMinutes":
			t.Errorf("Unexpected column %q in X_train", name)
		}
	}
}

func TestRun_Reproducible(t *testing.T) {
	df := rawFlights(50)

	first, err := Run(context.Background(), df, runParams(7), audit.NewNullLogger())
	if err != nil {
		t.Fatalf("First Run() error = %v", err)
	}

	second, err := Run(context.Background(), df, runParams(7), audit.NewNullLogger())
	if err != nil {
		t.Fatalf("Second Run() error = %v", err)
	}

	if first.XTrain.Nrow() != second.XTrain.Nrow() {
		t.Errorf("Expected identical split sizes for the same seed: %d != %d",
			first.XTrain.Nrow(), second.XTrain.Nrow())
	}
}

func TestRun_FailFast(t *testing.T) {
	df := rawFlights(10)
	p := runParams(42)
	p.Columns = []string{"FlightDate", "NoSuchColumn"}

	_, err := Run(context.Background(), df, p, audit.NewNullLogger())

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected *SchemaError from the first stage, got %T: %v", err, err)
	}

	if schemaErr.Stage != "select_columns" {
		t.Errorf("Expected stage 'select_columns', got '%s'", schemaErr.Stage)
	}
}

func TestRun_InputNotMutated(t *testing.T) {
	df := rawFlights(20)
	before := df.Nrow()
	beforeCols := df.Ncol()

	if _, err := Run(context.Background(), df, runParams(42), audit.NewNullLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if df.Nrow() != before || df.Ncol() != beforeCols {
		t.Error("Expected input table to remain unchanged")
	}
}
