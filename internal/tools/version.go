package tools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashira-dev/hashira/internal/errors"
)

// Version is a semantic version with an optional patch component.
// Tool releases are cached keyed by this value.
type Version struct {
	Major    int
	Minor    int
	Patch    int
	HasPatch bool
}

// NewVersion creates a version with a patch component.
func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, HasPatch: true}
}

// NewVersionShort creates a version without a patch component.
func NewVersionShort(major, minor int) Version {
	return Version{Major: major, Minor: minor}
}

// String formats the version as "major.minor" or "major.minor.patch".
func (v Version) String() string {
	if v.HasPatch {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseVersion parses "major.minor" or "major.minor.patch". A leading
// "v" is tolerated.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, errors.Newf(errors.CategoryTool, "invalid version %q", s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, errors.Newf(errors.CategoryTool, "invalid version %q", s)
		}
		nums[i] = n
	}

	v := Version{Major: nums[0], Minor: nums[1]}
	if len(nums) == 3 {
		v.Patch = nums[2]
		v.HasPatch = true
	}
	return v, nil
}

// Equal reports whether two versions are the same. A missing patch only
// equals a missing patch.
func (v Version) Equal(o Version) bool {
	return v == o
}
