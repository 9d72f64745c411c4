package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/sushant12/vdisk/pkg/manifest"
)

func (c *cli) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [MANIFEST]",
		Short: "Print the entries of a drive directory mapping as YAML",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfg.ManifestPath
			if len(args) > 0 {
				path = args[0]
			}

			entries, err := manifest.Read(c.fs, path)
			if err != nil {
				return err
			}
			c.log.WithField("path", path).WithField("entries", len(entries)).Debug("Manifest read")

			if entries == nil {
				entries = []manifest.Entry{}
			}

			data, err := yaml.Marshal(entries)
			if err != nil {
				return errors.Wrap(err, "cannot marshal entries")
			}

			_, err = c.out.Write(data)
			return err
		},
	}
}
