package generator

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sushant12/vdisk/internal/firecracker"
	"github.com/sushant12/vdisk/pkg/drive"
	"github.com/sushant12/vdisk/pkg/manifest"
	"github.com/sushant12/vdisk/pkg/script"
)

type Options struct {
	LibPath           string
	ScriptPath        string
	ManifestPath      string
	FirecrackerConfig string
	Firecracker       []firecracker.Option
}

func (o Options) withDefaults() Options {
	if o.ScriptPath == "" {
		o.ScriptPath = script.DefaultPath
	}
	if o.ManifestPath == "" {
		o.ManifestPath = manifest.DefaultPath
	}

	return o
}

type artifact struct {
	path  string
	write func() error
}

// Generator writes the artifacts for a drive list. Each output file is
// rebuilt from scratch; a failure leaves earlier files in place.
type Generator struct {
	fs  afero.Fs
	out io.Writer
	log logrus.FieldLogger
}

func New(fs afero.Fs, out io.Writer, log logrus.FieldLogger) *Generator {
	return &Generator{
		fs:  fs,
		out: out,
		log: log.WithField("item", "Generator"),
	}
}

func (g *Generator) Run(ctx context.Context, specs []drive.Spec, opts Options) error {
	opts = opts.withDefaults()
	layout := drive.Partition(specs)

	g.log.WithFields(logrus.Fields{
		"drives":   len(layout.Drives),
		"floppies": len(layout.Floppies),
		"images":   layout.Len(),
		"lib_path": opts.LibPath,
	}).Info("Generating artifacts")

	steps := []artifact{
		{opts.ScriptPath, func() error { return script.Write(g.fs, opts.ScriptPath, layout, opts.LibPath) }},
		{opts.ManifestPath, func() error { return manifest.Write(g.fs, opts.ManifestPath, layout) }},
	}
	if opts.FirecrackerConfig != "" {
		steps = append(steps, artifact{opts.FirecrackerConfig, func() error {
			return firecracker.Write(g.fs, opts.FirecrackerConfig, layout, opts.Firecracker...)
		}})
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := step.write(); err != nil {
			g.log.WithError(err).WithField("path", step.path).Error("Cannot write artifact")

			return err
		}

		g.log.WithField("path", step.path).Debug("Artifact written")
		fmt.Fprintf(g.out, "Generated %s\n", step.path)
	}

	return nil
}
