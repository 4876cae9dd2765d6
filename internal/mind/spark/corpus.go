package spark

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Sample is one labeled corpus line.
type Sample struct {
	Intent string `json:"intent"`
	Text   string `json:"text"`
}

// LoadCorpus reads JSONL samples from disk. A missing file is not an error:
// the classifier simply starts untrained.
func LoadCorpus(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer file.Close()

	var out []Sample
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var s Sample
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("corpus line %d: %w", line, err)
		}
		if s.Intent == "" || s.Text == "" {
			continue
		}
		out = append(out, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return out, nil
}

// AppendCorpus adds one sample to the JSONL file, creating it if needed.
func AppendCorpus(path string, s Sample) error {
	if s.Intent == "" || s.Text == "" {
		return fmt.Errorf("sample requires intent and text")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(s)
}

// TrainFromCorpus builds a classifier from every sample in the file.
func TrainFromCorpus(path string) (*Classifier, int, error) {
	samples, err := LoadCorpus(path)
	if err != nil {
		return nil, 0, err
	}
	c := NewClassifier()
	for _, s := range samples {
		c.Learn(s.Intent, s.Text)
	}
	return c, len(samples), nil
}
