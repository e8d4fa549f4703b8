// Package casefile reads and writes cases in YAML and ships the default mansion.
package casefile

import (
	"bytes"
	_ "embed"
	"github.com/myrjola/detectivequest/internal/errors"
	"github.com/myrjola/detectivequest/internal/models"
	"gopkg.in/yaml.v3"
	"io"
	"log/slog"
	"os"
)

//go:embed mansion.yaml
var defaultCase []byte

// Default returns the built-in mansion case.
func Default() (*models.Case, error) {
	c, err := Parse(defaultCase)
	if err != nil {
		return nil, errors.Wrap(err, "parse default case")
	}
	return c, nil
}

// Parse decodes a single YAML case and validates it. Unknown fields are rejected to catch typos in keys.
func Parse(data []byte) (*models.Case, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var c models.Case
	if err := decoder.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(models.ErrInvalidCase, "empty case file")
		}
		return nil, errors.Wrap(err, "decode case")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) (*models.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read case file", slog.String("path", path))
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse case file", slog.String("path", path))
	}
	return c, nil
}

// Write encodes c as YAML.
func Write(w io.Writer, c *models.Case) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2) //nolint:mnd // same indentation as the bundled case
	if err := encoder.Encode(c); err != nil {
		return errors.Wrap(err, "encode case", slog.String("case_id", c.ID))
	}
	if err := encoder.Close(); err != nil {
		return errors.Wrap(err, "flush case", slog.String("case_id", c.ID))
	}
	return nil
}
