package classifier

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultModelLoads(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if len(m.Categories) == 0 {
		t.Fatal("default model has no categories")
	}
}

func TestClassify(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		name     string
		features Features
		want     string
	}{
		{
			name:     "coffee is food",
			features: Features{Amount: 5.20, Description: "Coffee at Starbucks", Day: 2, Weekday: 4, Month: 5},
			want:     "food",
		},
		{
			name:     "groceries are food",
			features: Features{Amount: 35.00, Description: "Groceries from Lidl", Day: 5, Weekday: 0, Month: 5},
			want:     "food",
		},
		{
			name:     "bus ticket is transport",
			features: Features{Amount: 2.60, Description: "Bus ticket", Day: 7, Weekday: 2, Month: 5},
			want:     "transport",
		},
		{
			name:     "streaming is entertainment",
			features: Features{Amount: 9.99, Description: "Spotify monthly subscription", Day: 1, Weekday: 3, Month: 5},
			want:     "entertainment",
		},
		{
			name:     "barbershop is personal",
			features: Features{Amount: 8.00, Description: "Barbershop", Day: 27, Weekday: 1, Month: 5},
			want:     "personal",
		},
		{
			name:     "rent is utilities",
			features: Features{Amount: 500.00, Description: "Monthly rent payment", Day: 1, Weekday: 0, Month: 6},
			want:     "utilities",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Classify(tt.features)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.features.Description, got, tt.want)
			}
		})
	}
}

func TestClassifyMalformedFeatures(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		name     string
		features Features
	}{
		{"zero amount", Features{Amount: 0, Description: "x", Day: 1, Weekday: 0, Month: 1}},
		{"day out of range", Features{Amount: 5, Description: "x", Day: 32, Weekday: 0, Month: 1}},
		{"weekday out of range", Features{Amount: 5, Description: "x", Day: 1, Weekday: 7, Month: 1}},
		{"month out of range", Features{Amount: 5, Description: "x", Day: 1, Weekday: 0, Month: 13}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Classify(tt.features)
			if !errors.Is(err, ErrClassification) {
				t.Errorf("Classify() error = %v, want ErrClassification", err)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	f := Features{Amount: 12.00, Description: "something entirely unknown", Day: 15, Weekday: 3, Month: 7}
	first, err := m.Classify(f)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		got, err := m.Classify(f)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if got != first {
			t.Fatalf("Classify() not deterministic: %q then %q", first, got)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, defaultModelJSON, 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(m.Categories) == 0 {
		t.Fatal("loaded model has no categories")
	}
}

func TestLoadRejectsEmptyModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(path, []byte(`{"version":1,"categories":{}}`), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	if _, err := Load(path); !errors.Is(err, ErrEmptyModel) {
		t.Errorf("Load() error = %v, want ErrEmptyModel", err)
	}
}
