package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/chemlayout/pkg/errors"
	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

// source is one resolved command-line input.
type source struct {
	input  string
	format string // "" lets the pipeline sniff the content
	name   string // graph name for single-molecule input
	path   string // file the input came from, "" for literals and stdin
}

// resolveInput turns a command-line argument into pipeline input. The
// argument is read as a file when it exists or looks like one, from stdin
// when it is "-", and as a literal SMILES or reaction string otherwise.
func resolveInput(arg string, stdin io.Reader) (source, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return source{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return source{input: string(data)}, nil
	}

	if looksLikeFile(arg) {
		data, err := os.ReadFile(arg)
		if err != nil {
			if os.IsNotExist(err) {
				return source{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", arg)
			}
			return source{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", arg)
		}
		src := source{input: string(data), format: pipeline.DetectFormat(arg), path: arg}
		if src.format == pipeline.InputSMILES {
			src.name = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		}
		return src, nil
	}

	return source{input: arg}, nil
}

// looksLikeFile reports whether arg names a file rather than a SMILES
// string: it exists, or it ends in a known input extension.
func looksLikeFile(arg string) bool {
	if _, err := os.Stat(arg); err == nil {
		return true
	}
	return pipeline.DetectFormat(arg) != ""
}

// options builds pipeline options for src. An explicit format wins over
// the one derived from the file extension.
func (s source) options(format, name string) pipeline.Options {
	opts := pipeline.Options{Input: s.input, InputFormat: s.format, Name: s.name}
	if format != "" {
		opts.InputFormat = format
	}
	if name != "" {
		opts.Name = name
	}
	return opts
}
