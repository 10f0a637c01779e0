package pipeline

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-gota/gota/dataframe"
)

// sampleFlights - небольшой датасет рейсов для тестов стадий.
func sampleFlights() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"FlightDate", "Reporting_Airline", "Origin", "DepTime", "DepDelayMinutes"},
		{"2016-01-01", "aa", "JFK", "1345", "5"},
		{"2016-01-02", " dl ", "LGA", "0710", "0"},
		{"2016-02-11", "UA", "ORD", "2359", "112"},
		{"2016-03-05", "WN", "DAL", "0005", "3"},
	}, dataframe.DetectTypes(true))
}

func TestSelectColumns(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		wantCols []string
		wantErr  bool
	}{
		{
			name:     "keeps requested columns in order",
			columns:  []string{"DepTime", "FlightDate", "Reporting_Airline"},
			wantCols: []string{"DepTime", "FlightDate", "Reporting_Airline"},
		},
		{
			name:     "single column",
			columns:  []string{"Origin"},
			wantCols: []string{"Origin"},
		},
		{
			name:    "missing column",
			columns: []string{"FlightDate", "TailNumber"},
			wantErr: true,
		},
		{
			name:    "empty column list",
			columns: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := sampleFlights()
			p := &Params{Columns: tt.columns}

			out, err := SelectColumns(df, p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SelectColumns() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if !reflect.DeepEqual(out.Names(), tt.wantCols) {
				t.Errorf("Expected columns %v, got %v", tt.wantCols, out.Names())
			}

			if out.Nrow() != df.Nrow() {
				t.Errorf("Expected %d rows, got %d", df.Nrow(), out.Nrow())
			}
		})
	}
}

func TestSelectColumns_SchemaError(t *testing.T) {
	df := sampleFlights()
	p := &Params{Columns: []string{"FlightDate", "TailNumber"}}

	_, err := SelectColumns(df, p)

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected *SchemaError, got %T: %v", err, err)
	}

	if schemaErr.Column != "TailNumber" {
		t.Errorf("Expected missing column 'TailNumber', got '%s'", schemaErr.Column)
	}
}
