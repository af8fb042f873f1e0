// Package classifier loads a pre-trained spending categorizer and applies it
// to transaction features. The model is trained offline, loaded once at
// process start and read-only afterwards, so concurrent classification needs
// no locking. Construction happens in main and the handle is injected into
// the insert path.
package classifier

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

var (
	ErrClassification = errors.New("classification failed")
	ErrEmptyModel     = errors.New("model has no categories")
)

//go:embed model.json
var defaultModelJSON []byte

type (
	// Features is the feature vector derived from a transaction at insert
	// time: amount plus temporal features extracted from its date.
	Features struct {
		Amount      float64
		Description string
		Day         int // day of month, 1-31
		Weekday     int // 0=Monday .. 6=Sunday
		Month       int // 1-12
	}

	// categoryProfile holds the trained weights for one category label.
	categoryProfile struct {
		Prior          float64            `json:"prior"`
		Tokens         map[string]float64 `json:"tokens"`
		AmountMean     float64            `json:"amount_mean"`
		AmountStd      float64            `json:"amount_std"`
		WeekdayWeights []float64          `json:"weekday_weights,omitempty"`
		MonthWeights   []float64          `json:"month_weights,omitempty"`
	}

	// Model is an immutable scoring table over category labels.
	Model struct {
		Version    int                        `json:"version"`
		Categories map[string]categoryProfile `json:"categories"`
	}
)

// Load reads a trained model from a JSON file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return parse(data)
}

// Default returns the model bundled with the binary. Used when MODEL_PATH is
// not configured.
func Default() (*Model, error) {
	return parse(defaultModelJSON)
}

func parse(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(m.Categories) == 0 {
		return nil, ErrEmptyModel
	}
	return &m, nil
}

// Classify scores every category against the feature vector and returns the
// best label. It fails with an ErrClassification-wrapped error on malformed
// features; the caller must abort the insert in that case.
func (m *Model) Classify(f Features) (string, error) {
	if err := f.validate(); err != nil {
		return "", err
	}

	tokens := tokenize(f.Description)

	best := ""
	bestScore := 0.0
	for label, profile := range m.Categories {
		score := profile.score(f, tokens)
		if best == "" || score > bestScore || (score == bestScore && label < best) {
			best = label
			bestScore = score
		}
	}
	return best, nil
}

func (f Features) validate() error {
	switch {
	case f.Amount <= 0:
		return fmt.Errorf("%w: non-positive amount %v", ErrClassification, f.Amount)
	case f.Day < 1 || f.Day > 31:
		return fmt.Errorf("%w: day %d out of range", ErrClassification, f.Day)
	case f.Weekday < 0 || f.Weekday > 6:
		return fmt.Errorf("%w: weekday %d out of range", ErrClassification, f.Weekday)
	case f.Month < 1 || f.Month > 12:
		return fmt.Errorf("%w: month %d out of range", ErrClassification, f.Month)
	}
	return nil
}

func (p categoryProfile) score(f Features, tokens []string) float64 {
	score := p.Prior
	for _, token := range tokens {
		score += p.Tokens[token]
	}
	if p.AmountStd > 0 {
		z := (f.Amount - p.AmountMean) / p.AmountStd
		score -= 0.1 * z * z
	}
	if len(p.WeekdayWeights) == 7 {
		score += p.WeekdayWeights[f.Weekday]
	}
	if len(p.MonthWeights) == 12 {
		score += p.MonthWeights[f.Month-1]
	}
	return score
}

// tokenize lower-cases the description and splits it on any non-letter,
// non-digit rune. Matches the preprocessing used when the model was trained.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
