package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sushant12/vdisk/internal/config"
	"github.com/sushant12/vdisk/internal/generator"
	"github.com/sushant12/vdisk/pkg/drive"
)

const (
	exitError = 1
	exitUsage = 2
)

// errUsage marks command line mistakes that exit with exitUsage.
var errUsage = errors.New("usage error")

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func (e *usageError) Is(target error) bool { return target == errUsage }

// usageArgs marks positional argument errors from fn as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

type cli struct {
	fs    afero.Fs
	out   io.Writer
	v     *viper.Viper
	cfg   *config.Config
	log   *logrus.Logger
	specs []drive.Spec
}

func newRootCmd(fs afero.Fs, out io.Writer) *cobra.Command {
	c := &cli{fs: fs, out: out, v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "vdisk [DRIVES...]",
		Short: "Generate a script to create virtual drives",
		Long: "vdisk writes disk.sh, a script that creates zero-filled drive and floppy images,\n" +
			"and disk.dir, a mapping of every image to its size and type.\n" +
			"Drives are given as <size>MB<D|F>, e.g. 10MBD for a 10 MB drive or 4MBF for a 4 MB floppy.",
		Example:           "  vdisk 10MBD 512MBD 4MBF --lib-path /abs/path/SCRIPTS/lib.sh",
		Args:              c.parseDrives,
		PersistentPreRunE: c.setup,
		RunE:              c.generate,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	config.AddFlags(rootCmd, c.v)
	rootCmd.AddCommand(c.inspectCmd(), c.serveCmd())

	return rootCmd
}

func (c *cli) parseDrives(_ *cobra.Command, args []string) error {
	specs, err := drive.ParseAll(args)
	if err != nil {
		return err
	}
	c.specs = specs

	return nil
}

func (c *cli) setup(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(c.fs); err != nil {
		return err
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.log = log

	return nil
}

func (c *cli) generate(cmd *cobra.Command, _ []string) error {
	g := generator.New(c.fs, c.out, c.log)

	return g.Run(cmd.Context(), c.specs, generator.Options{
		LibPath:           c.cfg.LibPath,
		ScriptPath:        c.cfg.ScriptPath,
		ManifestPath:      c.cfg.ManifestPath,
		FirecrackerConfig: c.cfg.FirecrackerConfig,
		Firecracker:       c.cfg.Firecracker.Options(),
	})
}

// run executes the command line and returns the process exit code.
func run(args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(fs, stdout)
	rootCmd.SetErr(stderr)
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)

	cmd, err := rootCmd.ExecuteContextC(context.Background())
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "%s: error: %v\n", rootCmd.Name(), err)
	if errors.Is(err, drive.ErrInvalidFormat) || errors.Is(err, errUsage) {
		fmt.Fprintln(stderr, cmd.UseLine())
		return exitUsage
	}

	return exitError
}

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}
