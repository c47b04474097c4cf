package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/patentfig/pkg/errors"
	"github.com/matzehuels/patentfig/pkg/pipeline"
)

// Default output names for inline input.
const (
	defaultBlockName = "figure-a"
	defaultFlowName  = "figure-c"
)

// blockFlags holds the flags specific to the block command.
type blockFlags struct {
	names       string
	connections string
	selectQuery string
	strict      bool
	slots       int
	caption     string
}

// blockCommand creates the block command for four-block system diagrams.
func (c *CLI) blockCommand() *cobra.Command {
	var flags blockFlags
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "block [file]",
		Short: "Draw a four-block system diagram",
		Long: `Draw a block diagram: four named blocks in a 2x2 grid with arrows between them.

Give the names with --names and the connection mapping with --connections (or
as a JSON file), or pass one JSON document holding both:

  {"blocks": ["A (100)", "B (200)", "C (300)", "D (400)"],
   "connections": {"A (100)": ["B (200)"]}}`,
		Example: `  patentfig block --names "Sensor (100),Controller (200),Memory (300),Display (400)" \
    --connections '{"Sensor (100)": ["Controller (200)"]}'
  patentfig block figure.json -f svg,pdf --style patent`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			opts, err := flags.options(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out.apply(&opts)
			return c.runDiagram(cmd, opts, &out, input, defaultBlockName)
		},
	}

	cmd.Flags().StringVar(&flags.names, "names", "", "the four block names in slot order (comma-separated)")
	cmd.Flags().StringVar(&flags.connections, "connections", "", "JSON object mapping source names to target lists")
	cmd.Flags().StringVar(&flags.selectQuery, "select", "", "jq expression selecting the document from a larger JSON input")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "reject unknown keys in the document")
	cmd.Flags().IntVar(&flags.slots, "slots", 0, "number of block slots (default 4)")
	cmd.Flags().StringVar(&flags.caption, "caption", "", "figure caption (default \"Figure A: Block Diagram\")")
	out.register(cmd, "svg (default), png, pdf, json")

	return cmd
}

// options resolves the block names and the serialized input.
func (f *blockFlags) options(input string, stdin io.Reader) (pipeline.Options, error) {
	opts := pipeline.Options{
		Kind:      pipeline.KindBlock,
		Blocks:    parseNames(f.names),
		Select:    f.selectQuery,
		Strict:    f.strict,
		SlotCount: f.slots,
		Caption:   f.caption,
	}

	switch {
	case f.connections != "" && input != "":
		return opts, perrors.New(perrors.ErrCodeInvalidInput, "give either --connections or a file, not both")
	case f.connections != "":
		if len(opts.Blocks) == 0 {
			return opts, perrors.New(perrors.ErrCodeInvalidInput, "--connections needs --names")
		}
		opts.Input = []byte(f.connections)
	case input != "":
		data, err := readInput(input, stdin)
		if err != nil {
			return opts, err
		}
		opts.Input = data
	case len(opts.Blocks) == 0:
		return opts, perrors.New(perrors.ErrCodeInvalidInput, "block needs --names or a document file")
	}
	return opts, nil
}

// flowFlags holds the flags specific to the flow command.
type flowFlags struct {
	selectQuery string
	strict      bool
	strictChain bool
	position    bool
	caption     string
}

// flowCommand creates the flow command for method flow charts.
func (c *CLI) flowCommand() *cobra.Command {
	var flags flowFlags
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "flow <steps.json | json | ->",
		Short: "Draw a method flow chart",
		Long: `Draw a flow chart from an ordered list of steps. Each step draws an arrow from
its start box to its end box; boxes with the same label are drawn once.

The argument is a JSON array (inline, a file, or - for stdin):

  [{"start": "Receive request (100)", "end": "Validate (200)"}]`,
		Example: `  patentfig flow '[{"start":"A (100)","end":"B (200)"}]'
  patentfig flow method.json -f svg,mermaid --strict-chain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, file, err := flowInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Kind:        pipeline.KindFlow,
				Input:       data,
				Select:      flags.selectQuery,
				Strict:      flags.strict,
				StrictChain: flags.strictChain,
				Position:    flags.position,
				Caption:     flags.caption,
			}
			out.apply(&opts)
			return c.runDiagram(cmd, opts, &out, file, defaultFlowName)
		},
	}

	cmd.Flags().StringVar(&flags.selectQuery, "select", "", "jq expression selecting the steps from a larger JSON input")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "reject unknown keys in step records")
	cmd.Flags().BoolVar(&flags.strictChain, "strict-chain", false, "require each step to start where the previous one ended")
	cmd.Flags().BoolVar(&flags.position, "position", false, "record Graphviz box positions in the scene")
	cmd.Flags().StringVar(&flags.caption, "caption", "", "figure caption (default \"Figure C: Flow chart\")")
	out.register(cmd, "svg (default), png, pdf, json, dot, mermaid")

	return cmd
}

// flowInput reads the flow argument. Inline JSON is recognized by its first
// character; anything else is a file path. The returned file is empty for
// inline input.
func flowInput(arg string, stdin io.Reader) (data []byte, file string, err error) {
	trimmed := bytes.TrimSpace([]byte(arg))
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return trimmed, "", nil
	}
	data, err = readInput(arg, stdin)
	return data, arg, err
}

// readInput reads a file, or stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdoutPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// runDiagram executes the pipeline and writes the requested outputs.
func (c *CLI) runDiagram(cmd *cobra.Command, opts pipeline.Options, out *outputFlags, input, fallback string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	setCLIDefaults(&opts, cfg.Render)
	opts.Logger = logger

	runner, err := c.newRunner(ctx, cfg, out.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := execute(ctx, runner, opts)
	if err != nil {
		return err
	}

	written, err := writeArtifacts(cmd.OutOrStdout(), result.Artifacts, opts.Formats, out.output, input, fallback)
	if err != nil {
		return err
	}
	if out.output == stdoutPath {
		return nil
	}

	boxes, noun := boxCount(opts, result)
	printSuccess("Drew %s diagram", opts.Kind)
	printStats(boxes, noun, result.Stats.ConnectorCount, result.CacheInfo.SceneHit && result.CacheInfo.RenderHit)
	for _, path := range written {
		printFile(path)
	}
	return nil
}

// boxCount returns the number of drawn boxes and what to call them.
func boxCount(opts pipeline.Options, result *pipeline.Result) (int, string) {
	if opts.IsFlow() {
		return len(result.Scene.Nodes), "boxes"
	}
	return result.Stats.BlockCount, "blocks"
}

// execute runs the pipeline behind a spinner and logs the elapsed time.
func execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	prog := newProgress(opts.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Drawing %s diagram...", opts.Kind))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Rendered %d outputs", len(result.Artifacts)))
	return result, nil
}
