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

// StaticRule matches a single tracked path and contributes a fixed
// detection. The generic container-definition, configuration-as-code, and
// plugin-manifest rules are all instances of this shape.
type StaticRule struct {
	name      string
	path      string
	detection Detection
}

// NewContainerFileRule contributes MINOR for any change to the tracked
// container definition file that the base-image rule did not claim.
func NewContainerFileRule(path string) *StaticRule {
	return &StaticRule{
		name:      "container-file",
		path:      path,
		detection: Detection{Severities: []version.Severity{version.SeverityMinor}},
	}
}

// NewConfigFileRule contributes MINOR for any change to the tracked
// configuration-as-code file.
func NewConfigFileRule(path string) *StaticRule {
	return &StaticRule{
		name:      "config-as-code",
		path:      path,
		detection: Detection{Severities: []version.Severity{version.SeverityMinor}},
	}
}

// NewPluginManifestRule contributes no severity for a change to the tracked
// plugin manifest; it instead requests that the existing tag be reseated to
// the current commit.
func NewPluginManifestRule(path string) *StaticRule {
	return &StaticRule{
		name:      "plugin-manifest",
		path:      path,
		detection: Detection{Reseat: true},
	}
}

// Name returns the rule identifier used in logs.
func (r *StaticRule) Name() string { return r.name }

// Matches reports whether rec is the tracked path.
func (r *StaticRule) Matches(rec Record) bool {
	return rec.Path == r.path
}

// Detect returns the rule's fixed contribution. The severity slice is copied
// so callers cannot mutate the rule's own detection.
func (r *StaticRule) Detect(_ context.Context, _ Record) (Detection, error) {
	d := Detection{Reseat: r.detection.Reseat}
	if len(r.detection.Severities) > 0 {
		d.Severities = append([]version.Severity(nil), r.detection.Severities...)
	}
	return d, nil
}
