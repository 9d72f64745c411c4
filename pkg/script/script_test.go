package script

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushant12/vdisk/pkg/drive"
)

var sample = drive.Layout{Drives: []drive.Size{"10", "512"}, Floppies: []drive.Size{"4"}}

func TestRenderEcho(t *testing.T) {
	want := `#!/bin/bash

# Auto-generated script to create virtual drives (uses lib.sh if provided)

echo 'Creating drive_1 with size 10MB...'
dd if=/dev/zero of=drive_1.img bs=1M count=10
echo 'drive_1 created successfully'

echo 'Creating drive_2 with size 512MB...'
dd if=/dev/zero of=drive_2.img bs=1M count=512
echo 'drive_2 created successfully'

echo 'Creating floppy_1 with size 4MB...'
dd if=/dev/zero of=floppy_1.img bs=1M count=4
echo 'floppy_1 created successfully'

`
	got := Render(sample, "")
	assert.Equal(t, want, got)
	assert.NotContains(t, got, LogFunc)
	assert.NotContains(t, got, "source")
}

func TestRenderWithHelper(t *testing.T) {
	got := Render(sample, "/x/lib.sh")

	lines := strings.Split(got, "\n")
	require.Greater(t, len(lines), 5)
	assert.Equal(t, "#!/bin/bash", lines[0])
	assert.Equal(t, `source "/x/lib.sh"`, lines[4])

	var status int
	for _, line := range lines {
		if strings.HasPrefix(line, "echo") {
			t.Fatalf("unexpected echo line: %s", line)
		}
		if strings.HasPrefix(line, "log_build '") {
			status++
		}
	}
	assert.Equal(t, 6, status)
	assert.Contains(t, got, "log_build 'Creating floppy_1 with size 4MB...'\n")
	assert.Contains(t, got, "log_build 'drive_2 created successfully'\n\n")
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, header, Render(drive.Layout{}, ""))
	assert.Equal(t, header+"source \"/lib.sh\"\n", Render(drive.Layout{}, "/lib.sh"))
}

func TestRenderOnlyFloppies(t *testing.T) {
	got := Render(drive.Layout{Floppies: []drive.Size{"1", "2"}}, "")
	assert.NotContains(t, got, "drive_")
	assert.Less(t, strings.Index(got, "floppy_1.img"), strings.Index(got, "floppy_2.img"))
}

func TestRenderHugeSize(t *testing.T) {
	spec, err := drive.Parse("99999999999999999999999MBD")
	require.NoError(t, err)

	got := Render(drive.Partition([]drive.Spec{spec}), "")
	assert.Contains(t, got, "echo 'Creating drive_1 with size 99999999999999999999999MB...'\n")
	assert.Contains(t, got, "dd if=/dev/zero of=drive_1.img bs=1M count=99999999999999999999999\n")
}

func TestWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, DefaultPath, []byte("stale content that is longer than the header"), 0o644))

	require.NoError(t, Write(fs, DefaultPath, sample, ""))
	first, err := afero.ReadFile(fs, DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, Render(sample, ""), string(first))

	require.NoError(t, Write(fs, DefaultPath, sample, ""))
	second, err := afero.ReadFile(fs, DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	err := Write(fs, DefaultPath, sample, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), DefaultPath)
	assert.ErrorIs(t, err, os.ErrPermission)
}
