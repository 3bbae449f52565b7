package models

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultRemoteVersion is assumed when version.json omits the field.
const DefaultRemoteVersion = "1.0"

// VersionInfo is the content of version.json
type VersionInfo struct {
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
}

// VersionError reports a version string that is not dotted-integer.
type VersionError struct {
	Input   string
	Segment string
	Err     error
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("invalid version %q: segment %q is not a non-negative integer", e.Input, e.Segment)
}

func (e *VersionError) Unwrap() error {
	return e.Err
}

// Version is a parsed dotted-integer version.
type Version []int

// ParseVersion splits s on "." and parses each segment as a base-10
// integer. Leading zeros are accepted ("01" == 1); signs, spaces inside the
// string and empty segments are rejected.
func ParseVersion(s string) (Version, error) {
	input := strings.TrimSpace(s)
	parts := strings.Split(input, ".")

	v := make(Version, 0, len(parts))
	for _, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return nil, &VersionError{Input: s, Segment: part}
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, &VersionError{Input: s, Segment: part, Err: err}
		}
		v = append(v, n)
	}
	return v, nil
}

// Compare walks both versions pairwise up to the shorter length and
// returns -1, 0 or 1 at the first differing segment. Trailing extra
// segments are ignored, so 1.1 and 1.1.5 compare equal.
func (v Version) Compare(other Version) int {
	n := min(len(v), len(other))
	for i := 0; i < n; i++ {
		switch {
		case v[i] < other[i]:
			return -1
		case v[i] > other[i]:
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// CompareVersions parses both strings and compares them with Version.Compare.
func CompareVersions(a, b string) (int, error) {
	va, err := ParseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}
