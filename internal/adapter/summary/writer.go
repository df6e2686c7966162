// Package summary writes the machine-readable run summary as JSON or YAML.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
	"gopkg.in/yaml.v3"
)

// Writer exports domain.Summary to a file.
// It implements pipeline.Exporter.
type Writer struct {
	path   string
	format string
	logger *slog.Logger
}

// NewWriter creates a Writer. format is "json" or "yaml".
func NewWriter(path, format string, logger *slog.Logger) *Writer {
	return &Writer{path: path, format: format, logger: logger}
}

func (w *Writer) Name() string { return "summary" }

// Export encodes the report summary and writes it to the configured path.
func (w *Writer) Export(ctx context.Context, report domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(report.Summary(), w.format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create summary directory: %w", err)
		}
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("write summary %s: %w", w.path, err)
	}

	w.logger.Info("summary written", "path", w.path, "format", w.format)
	return nil
}

// Encode serializes a summary in the given format.
func Encode(s domain.Summary, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode summary json: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode summary yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported summary format %q", format)
	}
}
