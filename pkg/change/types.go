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

package change

import (
	"context"

	"github.com/NVIDIA/autotag/pkg/version"
)

// Record is a single file-level change within one commit: the path of the
// changed artifact (post-change side) and the raw unified-diff text for that
// file. Records are consumed read-only and never mutated.
type Record struct {
	Path string
	Diff string
}

// Detection is what a rule contributes for one record: zero or more update
// severities and, for the plugin-manifest rule, a request to reseat the
// existing tag instead of minting a new one.
type Detection struct {
	Severities []version.Severity
	Reseat     bool
}

// Empty reports whether the detection contributes nothing.
func (d Detection) Empty() bool {
	return len(d.Severities) == 0 && !d.Reseat
}

// MetadataSource resolves a fully qualified image reference to the
// environment-variable assignments found in that image's configuration,
// keyed by variable name. Implementations pull from a container registry;
// the scanner only reads the result.
type MetadataSource interface {
	ImageEnv(ctx context.Context, ref string) (map[string]string, error)
}

// Rule decides whether it applies to a change record and, if so, what the
// record contributes to the tag decision. Rules are evaluated in a fixed
// priority order and are mutually exclusive per file: the first rule whose
// Matches returns true is the only one consulted for that record.
type Rule interface {
	Name() string
	Matches(rec Record) bool
	Detect(ctx context.Context, rec Record) (Detection, error)
}
