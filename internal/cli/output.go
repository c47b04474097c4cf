package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/patentfig/pkg/errors"
	"github.com/matzehuels/patentfig/pkg/pipeline"
)

// stdoutPath selects standard output instead of a file (-o -).
const stdoutPath = "-"

// inputSuffix is inserted before the extension when a derived output path
// would land on the input file.
const inputSuffix = "-scene"

// extensions maps output formats to file extensions.
var extensions = map[string]string{
	pipeline.FormatSVG:     ".svg",
	pipeline.FormatPNG:     ".png",
	pipeline.FormatPDF:     ".pdf",
	pipeline.FormatJSON:    ".json",
	pipeline.FormatDOT:     ".dot",
	pipeline.FormatMermaid: ".mmd",
}

// outputFlags holds the flags shared by every command that writes figures.
type outputFlags struct {
	output  string // output file (single format) or base path (multiple)
	formats string // comma-separated formats
	style   string // simple or patent
	scale   float64
	noCache bool
	refresh bool
}

func (o *outputFlags) register(cmd *cobra.Command, formatHelp string) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): "+formatHelp+" (comma-separated)")
	cmd.Flags().StringVar(&o.style, "style", "", "visual style: simple (default), patent")
	cmd.Flags().Float64Var(&o.scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the scene and artifact cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached results and rebuild")
}

// apply copies the flags into opts.
func (o *outputFlags) apply(opts *pipeline.Options) {
	opts.Formats = parseFormats(o.formats)
	opts.Style = o.style
	opts.Scale = o.scale
	opts.Refresh = o.refresh
}

// basePath derives the base output path. With no -o it strips the extension
// from input, falling back to fallback for inline input. A known format
// extension on -o is stripped.
func basePath(output, input, fallback string) string {
	if output == "" {
		if input == "" || input == stdoutPath {
			return fallback
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, known := range extensions {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single format
// with an explicit -o is written to exactly that path, and explicit paths must
// pass [perrors.ValidatePath]. A derived path never replaces the input file.
func outputPaths(formats []string, output, input, fallback string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
	} else {
		base := basePath(output, input, fallback)
		for _, f := range formats {
			paths[f] = base + extensions[f]
			if output == "" && samePath(paths[f], input) {
				paths[f] = base + inputSuffix + extensions[f]
			}
		}
	}
	// Derived paths follow the input file and are not checked.
	if output != "" {
		for _, p := range paths {
			if err := perrors.ValidatePath(p); err != nil {
				return nil, err
			}
		}
	}
	return paths, nil
}

// samePath reports whether path names the input file.
func samePath(path, input string) bool {
	if input == "" || input == stdoutPath {
		return false
	}
	a, errA := filepath.Abs(path)
	b, errB := filepath.Abs(input)
	if errA != nil || errB != nil {
		return filepath.Clean(path) == filepath.Clean(input)
	}
	return a == b
}

// writeArtifacts writes every artifact in formats order and returns the
// paths written. With -o - the single artifact goes to stdout.
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, output, input, fallback string) ([]string, error) {
	if output == stdoutPath {
		if len(formats) != 1 {
			return nil, perrors.New(perrors.ErrCodeInvalidPath, "-o - needs exactly one format, got %d", len(formats))
		}
		_, err := stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	paths, err := outputPaths(formats, output, input, fallback)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return written, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", f, err)
		}
		written = append(written, path)
	}
	return written, nil
}
