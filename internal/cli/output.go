package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

// defaultBase names outputs for literal and stdin input.
const defaultBase = "molecule"

// outputBase derives the base path (without extension) for written files.
// An explicit output wins; a recognised format extension on it is dropped.
// Otherwise the input file name is used, then fallback.
func outputBase(output, inputPath, fallback string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if inputPath != "" {
		return strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	}
	if fallback != "" {
		return fallback
	}
	return defaultBase
}

// artifactPath is where one format is written. JSON scenes get a
// ".scene.json" suffix so they are not confused with graph documents.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".scene.json"
	}
	return base + "." + format
}

// writeArtifacts writes each artifact next to base, or to stdout when
// output is "-" and a single format was requested. It returns the paths
// written, in format order.
func writeArtifacts(artifacts map[string][]byte, base, output string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	if output == "-" {
		if len(formats) != 1 {
			return nil, fmt.Errorf("stdout output needs exactly one format, got %d", len(formats))
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := artifactPath(base, f)
		if err := writeFile(path, artifacts[f]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
