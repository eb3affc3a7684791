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
	"testing"
)

// FuzzParseRelaxed performs fuzz testing on ParseRelaxed to find edge cases
func FuzzParseRelaxed(f *testing.F) {
	// Seed corpus with valid and edge case inputs
	f.Add("1.2")
	f.Add("1.2.3")
	f.Add("0.0")
	f.Add("0.0.0")
	f.Add("2.333")
	f.Add("999.999.999")
	f.Add("1.2.3-rc.1")
	f.Add("1.2.3+build")
	f.Add("1.2-0.alpha")
	f.Add("")
	f.Add(".")
	f.Add("..")
	f.Add("1.")
	f.Add(".1")
	f.Add("1..2")
	f.Add("v1.2.3")
	f.Add("-1.2")
	f.Add("1.-2")
	f.Add("01.2")
	f.Add("1.02.3")
	f.Add("a.b.c")
	f.Add("1.2.3.4")
	f.Add("   1.2.3")
	f.Add("1.2.3   ")

	f.Fuzz(func(t *testing.T, input string) {
		// ParseRelaxed should never panic
		v, err := ParseRelaxed(input)
		if err != nil {
			return
		}

		// A parsed version must round-trip through its rendering
		again, err := ParseRelaxed(v.String())
		if err != nil {
			t.Fatalf("ParseRelaxed(%q) rendered %q which failed to re-parse: %v", input, v.String(), err)
		}
		if !again.Equal(v) {
			t.Errorf("ParseRelaxed(%q) did not round-trip: %v vs %v", input, v, again)
		}

		// The strict parser must agree on every three-part relaxed input
		if _, explicit := v.Patch(); explicit {
			sv, err := ParseStrict(v.String())
			if err != nil {
				t.Fatalf("ParseStrict rejected three-part version %q: %v", v.String(), err)
			}
			if !sv.Equal(v) {
				t.Errorf("strict/relaxed disagreement for %q: %v vs %v", input, sv, v)
			}
		}
	})
}
