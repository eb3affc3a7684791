// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Error types for version parsing failures
var (
	ErrMalformed    = errors.New("malformed version string")
	ErrMissingPatch = errors.New("version is missing a patch component")
)

// Component identifies one of the three numeric parts of a version.
type Component int

const (
	// ComponentMajor is the leftmost version component.
	ComponentMajor Component = iota
	// ComponentMinor is the middle version component.
	ComponentMinor
	// ComponentPatch is the rightmost version component.
	ComponentPatch
)

// String returns the lowercase name of the component.
func (c Component) String() string {
	switch c {
	case ComponentMajor:
		return "major"
	case ComponentMinor:
		return "minor"
	case ComponentPatch:
		return "patch"
	default:
		return fmt.Sprintf("component(%d)", int(c))
	}
}

// Version is the capability shared by the two concrete version forms.
// Patch returns ok=false when the patch component is implicit (absent from
// the source text), which is distinct from an explicit zero. Increment and
// Set mutate the receiver; callers that need to preserve the original value
// must operate on a Clone.
type Version interface {
	Major() int
	Minor() int
	Patch() (int, bool)
	Increment(c Component, by int)
	Set(c Component, value int)
	Equal(other Version) bool
	Clone() Version
	String() string
}

// versionRegex validates the canonical MAJOR.MINOR.PATCH[-pre][+meta] grammar
// with an optional patch group. Derived from the suggested expression at
// semver.org. Pre-release and build metadata are matched but not retained.
var versionRegex = regexp.MustCompile(
	`^(0|[1-9]\d*)\.(0|[1-9]\d*)(?:\.(0|[1-9]\d*))?` +
		`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
		`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

// Capture group indexes in versionRegex.
const (
	majorGroup = 1
	minorGroup = 2
	patchGroup = 3
)

// Strict is a version whose three components are always explicit.
// It is the form used for repository release tags.
type Strict struct {
	major int
	minor int
	patch int
}

// NewStrict creates a Strict version from explicit components.
func NewStrict(major, minor, patch int) *Strict {
	return &Strict{major: major, minor: minor, patch: patch}
}

// ParseStrict parses a version string into a Strict version.
// The string must carry all three numeric components; pre-release and build
// metadata suffixes are accepted and discarded. Returns an error wrapping
// ErrMalformed (or ErrMissingPatch for a two-part string) on bad input.
func ParseStrict(s string) (*Strict, error) {
	groups := versionRegex.FindStringSubmatch(s)
	if groups == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if groups[patchGroup] == "" {
		return nil, fmt.Errorf("%w: %q", ErrMissingPatch, s)
	}
	return &Strict{
		major: mustAtoi(groups[majorGroup]),
		minor: mustAtoi(groups[minorGroup]),
		patch: mustAtoi(groups[patchGroup]),
	}, nil
}

// MustParseStrict parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests. For user input or runtime
// data, always use ParseStrict and handle errors explicitly.
func MustParseStrict(s string) *Strict {
	v, err := ParseStrict(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseStrict: %v", err))
	}
	return v
}

// Major returns the major component.
func (v *Strict) Major() int { return v.major }

// Minor returns the minor component.
func (v *Strict) Minor() int { return v.minor }

// Patch returns the patch component. The second return is always true for
// the strict form.
func (v *Strict) Patch() (int, bool) { return v.patch, true }

// Increment adds by to the given component. Negative amounts are accepted
// for generality; normal tagging flow only ever increments.
func (v *Strict) Increment(c Component, by int) {
	switch c {
	case ComponentMajor:
		v.major += by
	case ComponentMinor:
		v.minor += by
	case ComponentPatch:
		v.patch += by
	}
}

// Set overwrites the given component outright.
func (v *Strict) Set(c Component, value int) {
	switch c {
	case ComponentMajor:
		v.major = value
	case ComponentMinor:
		v.minor = value
	case ComponentPatch:
		v.patch = value
	}
}

// Equal reports whether v and other have pairwise equal components.
func (v *Strict) Equal(other Version) bool {
	return equal(v, other)
}

// Clone returns an independent copy of v.
func (v *Strict) Clone() Version {
	c := *v
	return &c
}

// String renders the version as major.minor.patch.
func (v *Strict) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// Relaxed is a version whose patch component may be implicit, the form used
// by upstream release lines that publish two-part versions (e.g. 2.333).
// An implicit patch is tracked with a dedicated flag rather than a reserved
// integer so it can never collide with a real patch value.
type Relaxed struct {
	major         int
	minor         int
	patch         int
	patchExplicit bool
}

// NewRelaxed creates a Relaxed version with an explicit patch component.
func NewRelaxed(major, minor, patch int) *Relaxed {
	return &Relaxed{major: major, minor: minor, patch: patch, patchExplicit: true}
}

// NewRelaxedImplicit creates a Relaxed version whose patch is implicit.
func NewRelaxedImplicit(major, minor int) *Relaxed {
	return &Relaxed{major: major, minor: minor}
}

// ParseRelaxed parses a version string into a Relaxed version.
// The patch component is optional; when absent the version carries an
// implicit patch that compares unequal to any explicit value, including 0,
// but equal to another implicit patch. Pre-release and build metadata
// suffixes are accepted and discarded.
func ParseRelaxed(s string) (*Relaxed, error) {
	groups := versionRegex.FindStringSubmatch(s)
	if groups == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	v := &Relaxed{
		major: mustAtoi(groups[majorGroup]),
		minor: mustAtoi(groups[minorGroup]),
	}
	if groups[patchGroup] != "" {
		v.patch = mustAtoi(groups[patchGroup])
		v.patchExplicit = true
	}
	return v, nil
}

// MustParseRelaxed parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests.
func MustParseRelaxed(s string) *Relaxed {
	v, err := ParseRelaxed(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseRelaxed: %v", err))
	}
	return v
}

// Major returns the major component.
func (v *Relaxed) Major() int { return v.major }

// Minor returns the minor component.
func (v *Relaxed) Minor() int { return v.minor }

// Patch returns the patch component and whether it is explicit.
func (v *Relaxed) Patch() (int, bool) { return v.patch, v.patchExplicit }

// Increment adds by to the given component. Incrementing an implicit patch
// materializes it as an explicit value of by-1, so a +1 on an implicit patch
// lands on 0 and subsequent renders carry three components.
func (v *Relaxed) Increment(c Component, by int) {
	switch c {
	case ComponentMajor:
		v.major += by
	case ComponentMinor:
		v.minor += by
	case ComponentPatch:
		if !v.patchExplicit {
			v.patch = by - 1
			v.patchExplicit = true
			return
		}
		v.patch += by
	}
}

// Set overwrites the given component outright. Setting the patch always
// makes it explicit.
func (v *Relaxed) Set(c Component, value int) {
	switch c {
	case ComponentMajor:
		v.major = value
	case ComponentMinor:
		v.minor = value
	case ComponentPatch:
		v.patch = value
		v.patchExplicit = true
	}
}

// Equal reports whether v and other have pairwise equal components, where an
// implicit patch only equals another implicit patch.
func (v *Relaxed) Equal(other Version) bool {
	return equal(v, other)
}

// Clone returns an independent copy of v.
func (v *Relaxed) Clone() Version {
	c := *v
	return &c
}

// String renders major.minor when the patch is implicit, else
// major.minor.patch, so parsing round-trips the 2-part vs 3-part form.
func (v *Relaxed) String() string {
	if !v.patchExplicit {
		return fmt.Sprintf("%d.%d", v.major, v.minor)
	}
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// equal implements the shared component-wise equality contract: literal
// equality on the triple, with an implicit patch only equal to another
// implicit patch (never to an explicit 0).
func equal(a, b Version) bool {
	if a.Major() != b.Major() || a.Minor() != b.Minor() {
		return false
	}
	ap, aok := a.Patch()
	bp, bok := b.Patch()
	if aok != bok {
		return false
	}
	return !aok || ap == bp
}

// mustAtoi converts a regex-validated digit group. The grammar guarantees
// the group is a plain non-negative integer.
func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic(fmt.Sprintf("version: non-numeric capture group %q: %v", s, err))
	}
	return n
}
