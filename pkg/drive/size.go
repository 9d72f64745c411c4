package drive

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Size is an image size in MB held as canonical decimal digits, so digit
// strings of any length are kept exactly.
type Size string

// ParseSize accepts ASCII digits only and strips leading zeros.
func ParseSize(s string) (Size, error) {
	if s == "" {
		return "", errors.New("empty size")
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", errors.Errorf("invalid size %q", s)
		}
	}

	if s = strings.TrimLeft(s, "0"); s == "" {
		s = "0"
	}

	return Size(s), nil
}

func (s Size) String() string {
	if s == "" {
		return "0"
	}

	return string(s)
}

// Uint64 reports false when the size does not fit.
func (s Size) Uint64() (uint64, bool) {
	n, err := strconv.ParseUint(s.String(), 10, 64)
	return n, err == nil
}

// MarshalYAML emits a plain integer when it fits and the digit string otherwise.
func (s Size) MarshalYAML() (interface{}, error) {
	if n, ok := s.Uint64(); ok {
		return n, nil
	}

	return s.String(), nil
}

// MarshalJSON emits a JSON number of arbitrary length.
func (s Size) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Size) UnmarshalJSON(data []byte) error {
	size, err := ParseSize(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = size

	return nil
}
