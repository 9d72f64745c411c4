// Package script renders the shell script that creates zero-filled images.
package script

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/sushant12/vdisk/pkg/drive"
)

const (
	DefaultPath = "disk.sh"

	header = "#!/bin/bash\n\n# Auto-generated script to create virtual drives (uses lib.sh if provided)\n\n"

	// LogFunc is the function the helper script is expected to define.
	LogFunc = "log_build"

	blockSize = "1M"
	zeroDev   = "/dev/zero"
)

// Render builds the script text. A non-empty libPath sources the helper and
// routes status lines through LogFunc instead of echo.
func Render(layout drive.Layout, libPath string) string {
	var b strings.Builder
	b.WriteString(header)
	if libPath != "" {
		fmt.Fprintf(&b, "source \"%s\"\n", libPath)
	}

	status := "echo"
	if libPath != "" {
		status = LogFunc
	}

	for _, img := range layout.Images() {
		fmt.Fprintf(&b, "%s 'Creating %s with size %sMB...'\n", status, img.Name, img.SizeMB)
		fmt.Fprintf(&b, "dd if=%s of=%s bs=%s count=%s\n", zeroDev, img.FileName(), blockSize, img.SizeMB)
		fmt.Fprintf(&b, "%s '%s created successfully'\n\n", status, img.Name)
	}

	return b.String()
}

// Write overwrites path with the rendered script.
func Write(fs afero.Fs, path string, layout drive.Layout, libPath string) error {
	if err := afero.WriteFile(fs, path, []byte(Render(layout, libPath)), 0o644); err != nil {
		return errors.Wrapf(err, "cannot write script %s", path)
	}

	return nil
}
