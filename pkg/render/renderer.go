package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pipgraph/pkg/depgraph"
)

// Renderer writes the D2 description next to the configured image file and
// attempts compilation. A missing or failing compiler degrades the run:
// the description is retained and the image is reported as skipped.
type Renderer struct {
	outputFile string
	compiler   Compiler
	log        *logrus.Logger
}

// NewRenderer creates a renderer targeting outputFile (the image path).
func NewRenderer(outputFile string, compiler Compiler) *Renderer {
	return &Renderer{
		outputFile: outputFile,
		compiler:   compiler,
		log:        logrus.StandardLogger(),
	}
}

// SetLogger overrides the logger used for degraded-render warnings.
func (r *Renderer) SetLogger(log *logrus.Logger) {
	r.log = log
}

// Result reports what a Render call produced. ImagePath is empty when the
// compiler was unavailable or failed.
type Result struct {
	DescriptionPath string
	ImagePath       string
}

// Render writes the graph's D2 description and compiles it to the image
// file when possible. Only a failure to write the description itself is
// an error; compiler problems are warnings carried in the Result.
func (r *Renderer) Render(ctx context.Context, g *depgraph.Graph) (*Result, error) {
	descPath := DescriptionPath(r.outputFile)

	if err := os.WriteFile(descPath, []byte(Description(g)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write diagram description %s: %w", descPath, err)
	}

	result := &Result{DescriptionPath: descPath}

	if !r.compiler.Available() {
		r.log.Warn("diagram compiler not found, skipping image generation")
		return result, nil
	}

	if err := r.compiler.Compile(ctx, descPath, r.outputFile); err != nil {
		r.log.WithError(err).Warn("diagram compilation failed, description retained")
		return result, nil
	}

	result.ImagePath = r.outputFile
	return result, nil
}

// DescriptionPath derives the D2 filename from the image filename by
// swapping the extension.
func DescriptionPath(outputFile string) string {
	return strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".d2"
}
