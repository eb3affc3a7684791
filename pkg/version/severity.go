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

// Severity classifies how significant a version change is.
type Severity string

const (
	// SeverityMajor indicates the major component changed.
	SeverityMajor Severity = "major"
	// SeverityMinor indicates the minor component changed.
	SeverityMinor Severity = "minor"
	// SeverityPatch indicates the patch component changed.
	SeverityPatch Severity = "patch"
)

// severityRank is the explicit total order over severities,
// major > minor > patch. An unknown severity ranks 0.
var severityRank = map[Severity]int{
	SeverityMajor: 3,
	SeverityMinor: 2,
	SeverityPatch: 1,
}

// Rank returns the position of s in the severity total order.
func (s Severity) Rank() int {
	return severityRank[s]
}

// IsUnknown reports whether s is outside the closed severity enumeration.
func (s Severity) IsUnknown() bool {
	_, ok := severityRank[s]
	return !ok
}

// Classify compares two versions component-wise and returns the severity of
// every component that differs, in major, minor, patch order. The result is
// a set: a lower severity is reported even when a higher one is also present
// (1.2.3 -> 2.5.9 yields all three). For the relaxed form, an implicit patch
// compared against any explicit patch value is a patch difference by
// definition, while two implicit patches are equal.
func Classify(prior, current Version) []Severity {
	var severities []Severity
	if prior.Major() != current.Major() {
		severities = append(severities, SeverityMajor)
	}
	if prior.Minor() != current.Minor() {
		severities = append(severities, SeverityMinor)
	}
	pp, pok := prior.Patch()
	cp, cok := current.Patch()
	if pok != cok || (pok && cok && pp != cp) {
		severities = append(severities, SeverityPatch)
	}
	return severities
}

// Reduce folds a sequence of severities into the single highest-ranked one
// present. The fold is associative and commutative, so the observation order
// of the input never affects the result. The second return is false when the
// input is empty.
func Reduce(severities []Severity) (Severity, bool) {
	var greatest Severity
	for _, s := range severities {
		if s.Rank() > greatest.Rank() {
			greatest = s
		}
	}
	return greatest, greatest != ""
}
