// Package seed loads the bundled sample diaries into an empty repository.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sakif/mini-diary/internal/model"
	"github.com/sakif/mini-diary/internal/repository"
)

//go:embed samples.yaml
var samplesYAML []byte

const timestampLayout = "2006-01-02T15:04:05"

type sample struct {
	CreatedAt string `yaml:"createdAt"`
	Text      string `yaml:"text"`
}

// Samples parses the bundled entries, interpreting their timestamps in loc.
// Entries come back oldest first, the order they are inserted in.
func Samples(loc *time.Location) ([]model.Diary, error) {
	if loc == nil {
		loc = time.Local
	}

	var raw []sample
	if err := yaml.Unmarshal(samplesYAML, &raw); err != nil {
		return nil, fmt.Errorf("seed: decoding samples: %w", err)
	}

	out := make([]model.Diary, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		created, err := time.ParseInLocation(timestampLayout, raw[i].CreatedAt, loc)
		if err != nil {
			return nil, fmt.Errorf("seed: sample %d: %w", i, err)
		}
		out = append(out, model.Diary{
			Text:      raw[i].Text,
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	return out, nil
}

// Load inserts the samples when repo is empty and returns how many were
// added. A non-empty repository is left alone.
func Load(ctx context.Context, repo repository.DiaryRepository, loc *time.Location) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: counting entries: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	samples, err := Samples(loc)
	if err != nil {
		return 0, err
	}
	for i := range samples {
		if err := repo.Create(ctx, &samples[i]); err != nil {
			return i, fmt.Errorf("seed: inserting sample %d: %w", i, err)
		}
	}
	return len(samples), nil
}
