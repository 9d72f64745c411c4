package firecracker

import (
	"encoding/json"
	"path/filepath"

	firecracker "github.com/firecracker-microvm/firecracker-go-sdk"
	models "github.com/firecracker-microvm/firecracker-go-sdk/client/models"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/sushant12/vdisk/pkg/drive"
)

const (
	DefaultKernelImage   = "bin/vmlinux"
	DefaultKernelCmdLine = "ro console=ttyS0 noapic reboot=k panic=1 pci=off nomodules"
	DefaultCPUCount      = 1
	DefaultMemSz         = 256
)

var ErrUnknownRootDrive = errors.New("root drive is not part of the layout")

type options struct {
	FcKernelImage   string
	FcKernelCmdLine string
	FcImageDir      string
	FcRootDrive     string
	FcDisableSmt    bool
	FcCPUCount      int64
	FcMemSz         int64
}

// Option is a function that configures an options instance
type Option func(*options)

// newOptions creates an options instance with default values
func newOptions(opts ...Option) *options {
	o := &options{
		FcKernelImage:   DefaultKernelImage,
		FcKernelCmdLine: DefaultKernelCmdLine,
		FcDisableSmt:    true,
		FcCPUCount:      DefaultCPUCount,
		FcMemSz:         DefaultMemSz,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func WithKernelImage(path string) Option {
	return func(o *options) {
		if path != "" {
			o.FcKernelImage = path
		}
	}
}

func WithKernelCmdLine(args string) Option {
	return func(o *options) {
		if args != "" {
			o.FcKernelCmdLine = args
		}
	}
}

// WithImageDir sets the host directory holding the generated images.
func WithImageDir(dir string) Option {
	return func(o *options) {
		o.FcImageDir = dir
	}
}

// WithRootDrive marks the image with this name (e.g. drive_1) as root device.
func WithRootDrive(name string) Option {
	return func(o *options) {
		o.FcRootDrive = name
	}
}

func WithCPUCount(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.FcCPUCount = n
		}
	}
}

func WithMemSize(mib int64) Option {
	return func(o *options) {
		if mib > 0 {
			o.FcMemSz = mib
		}
	}
}

func WithSmt(enabled bool) Option {
	return func(o *options) {
		o.FcDisableSmt = !enabled
	}
}

// VMConfigFile is the document accepted by `firecracker --config-file`.
type VMConfigFile struct {
	BootSource    models.BootSource           `json:"boot-source"`
	Drives        []models.Drive              `json:"drives"`
	MachineConfig models.MachineConfiguration `json:"machine-config"`
}

// NewConfig converts the layout into a firecracker config with one block
// device per image, in layout order.
func NewConfig(layout drive.Layout, opts ...Option) (firecracker.Config, error) {
	o := newOptions(opts...)

	images := layout.Images()
	drives := make([]models.Drive, 0, len(images))
	rootFound := o.FcRootDrive == ""
	for _, img := range images {
		isRoot := img.Name == o.FcRootDrive
		if isRoot {
			rootFound = true
		}

		drives = append(drives, models.Drive{
			DriveID:      firecracker.String(img.Name),
			PathOnHost:   firecracker.String(filepath.Join(o.FcImageDir, img.FileName())),
			IsRootDevice: firecracker.Bool(isRoot),
			IsReadOnly:   firecracker.Bool(false),
		})
	}

	if !rootFound {
		return firecracker.Config{}, errors.Wrapf(ErrUnknownRootDrive, "root drive %s", o.FcRootDrive)
	}

	return firecracker.Config{
		KernelImagePath: o.FcKernelImage,
		KernelArgs:      o.FcKernelCmdLine,
		Drives:          drives,
		MachineCfg: models.MachineConfiguration{
			VcpuCount:  firecracker.Int64(o.FcCPUCount),
			Smt:        firecracker.Bool(!o.FcDisableSmt),
			MemSizeMib: firecracker.Int64(o.FcMemSz),
		},
	}, nil
}

func NewVMConfigFile(cfg firecracker.Config) VMConfigFile {
	return VMConfigFile{
		BootSource: models.BootSource{
			KernelImagePath: firecracker.String(cfg.KernelImagePath),
			BootArgs:        cfg.KernelArgs,
		},
		Drives:        cfg.Drives,
		MachineConfig: cfg.MachineCfg,
	}
}

// Render returns the indented config file JSON, newline terminated.
func Render(layout drive.Layout, opts ...Option) ([]byte, error) {
	cfg, err := NewConfig(layout, opts...)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(NewVMConfigFile(cfg), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal firecracker config")
	}

	return append(data, '\n'), nil
}

func Write(fs afero.Fs, path string, layout drive.Layout, opts ...Option) error {
	data, err := Render(layout, opts...)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrapf(err, "cannot write firecracker config %s", path)
	}

	return nil
}
