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

package registry

import (
	"regexp"
	"strings"
)

// envVarRegex matches a well-formed NAME=value environment assignment.
var envVarRegex = regexp.MustCompile(`^[a-zA-Z_]\w*=.+`)

// ParseEnv converts raw NAME=value assignments from an image configuration
// into a map keyed by variable name. Entries that do not match the
// assignment shape are dropped. Values may themselves contain '='; only the
// first one splits.
func ParseEnv(assignments []string) map[string]string {
	env := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		if !envVarRegex.MatchString(assignment) {
			continue
		}
		name, value, _ := strings.Cut(assignment, "=")
		env[name] = value
	}
	return env
}
