package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParams_Validate(t *testing.T) {
	valid := Params{
		Columns:       []string{"FlightDate", "Reporting_Airline", "DepTime", "DepDelayMinutes"},
		Features:      []string{"DepHour", "DepMonth", "DepDelayMinutes"},
		TargetColumn:  "DepDelayMinutes",
		TrainFraction: 0.8,
	}

	tests := []struct {
		name    string
		modify  func(p *Params)
		wantErr bool
	}{
		{
			name:   "valid params",
			modify: func(p *Params) {},
		},
		{
			name:    "empty l_cols",
			modify:  func(p *Params) { p.Columns = nil },
			wantErr: true,
		},
		{
			name:    "empty features",
			modify:  func(p *Params) { p.Features = nil },
			wantErr: true,
		},
		{
			name:    "empty target column",
			modify:  func(p *Params) { p.TargetColumn = "" },
			wantErr: true,
		},
		{
			name:    "target not in features",
			modify:  func(p *Params) { p.TargetColumn = "ArrDelayMinutes" },
			wantErr: true,
		},
		{
			name:    "features contain only target",
			modify:  func(p *Params) { p.Features = []string{"DepDelayMinutes"} },
			wantErr: true,
		},
		{
			name:    "fraction too low",
			modify:  func(p *Params) { p.TrainFraction = 0 },
			wantErr: true,
		},
		{
			name:    "fraction too high",
			modify:  func(p *Params) { p.TrainFraction = 1.2 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)

			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadParams(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "params.yaml")

	content := `
l_cols:
  - FlightDate
  - Reporting_Airline
  - DepTime
  - DepDelayMinutes
features:
  - DepHour
  - DepMonth
  - DepDelayMinutes
target_column: DepDelayMinutes
train_fraction: 0.8
seed: 42
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write params file: %v", err)
	}

	p, err := LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams() error = %v", err)
	}

	if len(p.Columns) != 4 {
		t.Errorf("Expected 4 columns, got %d", len(p.Columns))
	}

	if p.TargetColumn != "DepDelayMinutes" {
		t.Errorf("Expected target 'DepDelayMinutes', got '%s'", p.TargetColumn)
	}

	if p.Seed == nil || *p.Seed != 42 {
		t.Errorf("Expected seed 42, got %v", p.Seed)
	}
}

func TestLoadParams_Invalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing file",
			content: "",
		},
		{
			name:    "malformed yaml",
			content: "l_cols: [unclosed",
		},
		{
			name: "invalid fraction",
			content: `
l_cols: [FlightDate]
features: [DepHour, DepMonth]
target_column: DepHour
train_fraction: 1.5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name+".yaml")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("Failed to write params file: %v", err)
				}
			}

			if _, err := LoadParams(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
