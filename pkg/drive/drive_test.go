package drive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token string
		want  Spec
	}{
		{"10MBD", Spec{SizeMB: "10", Kind: Disk}},
		{"4MBF", Spec{SizeMB: "4", Kind: Floppy}},
		{"512mbd", Spec{SizeMB: "512", Kind: Disk}},
		{"4MBf", Spec{SizeMB: "4", Kind: Floppy}},
		{"0MBD", Spec{SizeMB: "0", Kind: Disk}},
		{"000MBF", Spec{SizeMB: "0", Kind: Floppy}},
		{"010MBD", Spec{SizeMB: "10", Kind: Disk}},
		{"18446744073709551616MBD", Spec{SizeMB: "18446744073709551616", Kind: Disk}},
		{"99999999999999999999999MBD", Spec{SizeMB: "99999999999999999999999", Kind: Disk}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := Parse(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tokens := []string{
		"",
		"MBD",
		"10MB",
		"10MBX",
		"10GBD",
		"10MBDX",
		"x10MBD",
		"10 MBD",
		"-1MBD",
		"+1MBD",
		"1.5MBD",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := Parse(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFormat))

			var ife *InvalidFormatError
			require.True(t, errors.As(err, &ife))
			assert.Equal(t, token, ife.Token)
			assert.Contains(t, err.Error(), "Invalid format: "+token+".")
			assert.Contains(t, err.Error(), "'10MBD'")
			assert.Contains(t, err.Error(), "'4MBF'")
		})
	}
}

func TestParseAll(t *testing.T) {
	specs, err := ParseAll([]string{"10MBD", "4MBF", "512MBD"})
	require.NoError(t, err)
	assert.Equal(t, []Spec{{"10", Disk}, {"4", Floppy}, {"512", Disk}}, specs)

	_, err = ParseAll([]string{"10MBD", "bogus", "4MBF"})
	require.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "bogus")

	specs, err = ParseAll(nil)
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestPartition(t *testing.T) {
	l := Partition([]Spec{{"10", Disk}, {"4", Floppy}, {"512", Disk}, {"2", Floppy}})
	assert.Equal(t, []Size{"10", "512"}, l.Drives)
	assert.Equal(t, []Size{"4", "2"}, l.Floppies)
	assert.Equal(t, 4, l.Len())

	assert.Equal(t, []Image{
		{Name: "drive_1", SizeMB: "10", Kind: Disk},
		{Name: "drive_2", SizeMB: "512", Kind: Disk},
		{Name: "floppy_1", SizeMB: "4", Kind: Floppy},
		{Name: "floppy_2", SizeMB: "2", Kind: Floppy},
	}, l.Images())
}

func TestEmptyLayout(t *testing.T) {
	l := Partition(nil)
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Images())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "D", Disk.String())
	assert.Equal(t, "floppy", Floppy.Prefix())
	assert.Equal(t, "drive_3.img", Image{Name: "drive_3"}.FileName())

	k, err := ParseKind("f")
	require.NoError(t, err)
	assert.Equal(t, Floppy, k)

	_, err = ParseKind("X")
	assert.Error(t, err)
}
