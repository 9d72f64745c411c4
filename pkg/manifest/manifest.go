// Package manifest reads and writes the drive directory mapping (disk.dir).
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/sushant12/vdisk/pkg/drive"
)

const (
	DefaultPath = "disk.dir"

	header     = "# Drive Directory Mapping\n\n"
	sizeSuffix = "MB"
)

var ErrMalformedLine = errors.New("malformed manifest line")

// Entry is one image line of a manifest.
type Entry struct {
	File   string     `yaml:"file" json:"file"`
	SizeMB drive.Size `yaml:"size_mb" json:"size_mb"`
	Kind   drive.Kind `yaml:"kind" json:"kind"`
}

// LineError reports a manifest line that could not be parsed.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %q: %s", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func Render(layout drive.Layout) string {
	var b strings.Builder
	b.WriteString(header)
	for _, img := range layout.Images() {
		fmt.Fprintf(&b, "%s %s%s %s\n", img.FileName(), img.SizeMB, sizeSuffix, img.Kind)
	}

	return b.String()
}

// Write overwrites path with the rendered manifest.
func Write(fs afero.Fs, path string, layout drive.Layout) error {
	if err := afero.WriteFile(fs, path, []byte(Render(layout)), 0o644); err != nil {
		return errors.Wrapf(err, "cannot write manifest %s", path)
	}

	return nil
}

// Parse reads manifest entries, skipping comments and blank lines.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, &LineError{Line: n, Text: line, Err: err}
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read manifest")
	}

	return entries, nil
}

// Read parses the manifest stored at path.
func Read(fs afero.Fs, path string) ([]Entry, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open manifest %s", path)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse manifest %s", path)
	}

	return entries, nil
}

func parseLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Entry{}, errors.Wrapf(ErrMalformedLine, "expected 3 fields, got %d", len(fields))
	}

	size, ok := strings.CutSuffix(fields[1], sizeSuffix)
	if !ok {
		return Entry{}, errors.Wrapf(ErrMalformedLine, "size %q has no %s suffix", fields[1], sizeSuffix)
	}

	sizeMB, err := drive.ParseSize(size)
	if err != nil {
		return Entry{}, errors.Wrapf(ErrMalformedLine, "size %q: %s", fields[1], err)
	}

	kind, err := drive.ParseKind(fields[2])
	if err != nil {
		return Entry{}, errors.Wrap(ErrMalformedLine, err.Error())
	}

	return Entry{File: fields[0], SizeMB: sizeMB, Kind: kind}, nil
}
