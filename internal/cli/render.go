package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/patentfig/pkg/diagram"
	"github.com/matzehuels/patentfig/pkg/pipeline"
)

// renderCommand creates the render command, which draws a scene saved with
// -f json in another format or style without laying it out again.
func (c *CLI) renderCommand() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "render <scene.json>",
		Short: "Render a saved scene",
		Example: `  patentfig flow method.json -f json -o method.json
  patentfig render method.json -f pdf --style patent`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &out)
		},
	}

	out.register(cmd, "svg (default), png, pdf, json, dot and mermaid (flow only)")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, out *outputFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	scene, err := diagram.ReadSceneFile(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded scene", "kind", scene.Kind, "rects", len(scene.Rects), "connectors", len(scene.Connectors))

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	var opts pipeline.Options
	out.apply(&opts)
	setCLIDefaults(&opts, cfg.Render)
	opts.Logger = logger

	runner, err := c.newRunner(ctx, cfg, out.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	artifacts, err := runner.RenderScene(ctx, scene, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered scene")

	// The input is itself a .json file; never overwrite it by default.
	fallback := basePath("", input, "") + "-render"
	written, err := writeArtifacts(cmd.OutOrStdout(), artifacts, opts.Formats, out.output, "", fallback)
	if err != nil {
		return err
	}
	for _, path := range written {
		printFile(path)
	}
	return nil
}
