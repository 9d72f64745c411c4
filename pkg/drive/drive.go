package drive

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the type letter of a virtual image.
type Kind byte

const (
	Disk   Kind = 'D'
	Floppy Kind = 'F'
)

var tokenPattern = regexp.MustCompile(`(?i)^(\d+)(MB)([DF])$`)

func (k Kind) String() string {
	return string(k)
}

// Prefix is the base name used for generated images of this kind.
func (k Kind) Prefix() string {
	switch k {
	case Disk:
		return "drive"
	case Floppy:
		return "floppy"
	}

	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind

	return nil
}

// ParseKind accepts "D" or "F" in either case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(s) {
	case "D":
		return Disk, nil
	case "F":
		return Floppy, nil
	}

	return 0, errors.Errorf("unknown drive kind %q", s)
}

// Spec is one parsed command line token.
type Spec struct {
	SizeMB Size
	Kind   Kind
}

// Parse converts a token such as "10MBD" or "4mbf" into a Spec.
func Parse(token string) (Spec, error) {
	m := tokenPattern.FindStringSubmatch(token)
	if m == nil {
		return Spec{}, &InvalidFormatError{Token: token}
	}

	size, err := ParseSize(m[1])
	if err != nil {
		return Spec{}, &InvalidFormatError{Token: token}
	}

	kind, err := ParseKind(m[3])
	if err != nil {
		return Spec{}, &InvalidFormatError{Token: token}
	}

	return Spec{SizeMB: size, Kind: kind}, nil
}

// ParseAll parses tokens in order and stops at the first invalid one.
func ParseAll(tokens []string) ([]Spec, error) {
	specs := make([]Spec, 0, len(tokens))
	for _, token := range tokens {
		spec, err := Parse(token)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// Image is a single numbered artifact of a layout.
type Image struct {
	Name   string
	SizeMB Size
	Kind   Kind
}

func (i Image) FileName() string {
	return i.Name + ".img"
}

// Layout holds image sizes split by kind, in command line order.
type Layout struct {
	Drives   []Size
	Floppies []Size
}

func Partition(specs []Spec) Layout {
	var l Layout
	for _, spec := range specs {
		switch spec.Kind {
		case Disk:
			l.Drives = append(l.Drives, spec.SizeMB)
		case Floppy:
			l.Floppies = append(l.Floppies, spec.SizeMB)
		}
	}

	return l
}

// Images numbers drives and floppies independently, starting at 1.
// All drives come before all floppies.
func (l Layout) Images() []Image {
	images := make([]Image, 0, len(l.Drives)+len(l.Floppies))
	images = appendImages(images, Disk, l.Drives)
	images = appendImages(images, Floppy, l.Floppies)

	return images
}

func (l Layout) Len() int {
	return len(l.Drives) + len(l.Floppies)
}

func appendImages(images []Image, kind Kind, sizes []Size) []Image {
	for i, size := range sizes {
		images = append(images, Image{
			Name:   fmt.Sprintf("%s_%d", kind.Prefix(), i+1),
			SizeMB: size,
			Kind:   kind,
		})
	}

	return images
}
