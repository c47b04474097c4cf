// Package blocks draws block diagram scenes (Figure A) as SVG, PNG and PDF.
//
// The scene already holds every coordinate, so rendering is a direct
// translation: scene units are scaled by [DefaultUnit] pixels (see
// [WithUnit]), a half-unit margin is added on every side, and each element is
// handed to a [styles.Style]:
//
//	svg, err := blocks.RenderSVG(scene, blocks.WithStyle(styles.Patent{}))
//	png, err := blocks.RenderPNG(ctx, scene, blocks.WithScale(2))
//
// Connectors are drawn with an explicit arrowhead polygon sized from the
// scene's [diagram.ArrowStyle], never smaller than a readable minimum. A
// connector from a block to itself is drawn as a small loop on the block's
// top-right corner.
//
// [diagram.ArrowStyle]: github.com/matzehuels/patentfig/pkg/diagram.ArrowStyle
package blocks
