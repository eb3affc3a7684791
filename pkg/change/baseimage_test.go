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
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/autotag/pkg/errors"
	"github.com/NVIDIA/autotag/pkg/version"
)

const (
	testImage  = "jenkins/jenkins:lts"
	testEnvVar = "JENKINS_VERSION"
)

// fakeMetadataSource serves canned env maps keyed by image reference.
type fakeMetadataSource struct {
	env map[string]map[string]string
	err error
}

func (f *fakeMetadataSource) ImageEnv(_ context.Context, ref string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.env[ref], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func digestDiff(priorDigest, currentDigest string) string {
	return "@@ -1,2 +1,2 @@\n" +
		"-FROM " + testImage + "@sha256:" + priorDigest + "\n" +
		"+FROM " + testImage + "@sha256:" + currentDigest + "\n" +
		" USER jenkins\n"
}

func TestBaseImageRuleMatches(t *testing.T) {
	rule := NewBaseImageRule("Dockerfile", testImage, testEnvVar, &fakeMetadataSource{}, discardLogger())

	tests := []struct {
		name     string
		rec      Record
		expected bool
	}{
		{
			name:     "digest change in tracked file",
			rec:      Record{Path: "Dockerfile", Diff: digestDiff("aaa111", "bbb222")},
			expected: true,
		},
		{
			name:     "digest change in another file",
			rec:      Record{Path: "docker/Dockerfile", Diff: digestDiff("aaa111", "bbb222")},
			expected: false,
		},
		{
			name:     "tracked file without digest change",
			rec:      Record{Path: "Dockerfile", Diff: "+RUN apt-get update\n"},
			expected: false,
		},
		{
			name:     "different base image digest change",
			rec:      Record{Path: "Dockerfile", Diff: "-FROM ubuntu:24.04@sha256:aaa\n+FROM ubuntu:24.04@sha256:bbb\n"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rule.Matches(tt.rec))
		})
	}
}

func TestBaseImageRuleDetect(t *testing.T) {
	ctx := context.Background()
	rec := Record{Path: "Dockerfile", Diff: digestDiff("aaa111", "bbb222")}
	priorRef := testImage + "@sha256:aaa111"
	currentRef := testImage + "@sha256:bbb222"

	env := func(prior, current string) map[string]map[string]string {
		return map[string]map[string]string{
			priorRef:   {testEnvVar: prior, "PATH": "/usr/bin"},
			currentRef: {testEnvVar: current, "PATH": "/usr/bin"},
		}
	}

	t.Run("minor upstream change", func(t *testing.T) {
		src := &fakeMetadataSource{env: env("2.330", "2.331")}
		rule := NewBaseImageRule("Dockerfile", testImage, testEnvVar, src, discardLogger())

		det, err := rule.Detect(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, []version.Severity{version.SeverityMinor}, det.Severities)
		assert.False(t, det.Reseat)
	})

	t.Run("patch upstream change", func(t *testing.T) {
		src := &fakeMetadataSource{env: env("2.330.1", "2.330.2")}
		rule := NewBaseImageRule("Dockerfile", testImage, testEnvVar, src, discardLogger())

		det, err := rule.Detect(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, []version.Severity{version.SeverityPatch}, det.Severities)
	})

	t.Run("implicit to explicit patch is a patch change", func(t *testing.T) {
		src := &fakeMetadataSource{env: env("2.333", "2.333.0")}
		rule := NewBaseImageRule("Dockerfile", testImage, testEnvVar, src, discardLogger())

		det, err := rule.Detect(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, []version.Severity{version.SeverityPatch}, det.Severities)
	})

	t.Run("identical upstream versions contribute nothing", func(t *testing.T) {
		src := &fakeMetadataSource{env: env("2.333", "2.333")}
		rule := NewBaseImageRule("Dockerfile", testImage, testEnvVar, src, discardLogger())

		det, err := rule.Detect(ctx, rec)
		require.NoError(t, err)
		assert.True(t, det.Empty())
	})

	t.Run("major upstream change is a policy stop", func(t *testing.T) {
		src := &fakeMetadataSource{env: env("2.330", "3.1")}
		rule := NewBaseImageRule("Dockerfile", testImage, testEnvVar, src, discardLogger())

		_, err := rule.Detect(ctx, rec)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamMajorChange))
		assert.Contains(t, err.Error(), "2.330")
		assert.Contains(t, err.Error(), "3.1")
	})

	t.Run("missing version metadata skips detection", func(t *testing.T) {
		src := &fakeMetadataSource{env: map[string]map[string]string{
			priorRef:   {"PATH": "/usr/bin"},
			currentRef: {testEnvVar: "2.331"},
		}}
		rule := NewBaseImageRule("Dockerfile", testImage, testEnvVar, src, discardLogger())

		det, err := rule.Detect(ctx, rec)
		require.NoError(t, err)
		assert.True(t, det.Empty())
	})

	t.Run("malformed upstream version fails fast", func(t *testing.T) {
		src := &fakeMetadataSource{env: env("2.330", "not-a-version")}
		rule := NewBaseImageRule("Dockerfile", testImage, testEnvVar, src, discardLogger())

		_, err := rule.Detect(ctx, rec)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMalformedVersion))
	})

	t.Run("one-sided digest change contributes nothing", func(t *testing.T) {
		src := &fakeMetadataSource{env: env("2.330", "2.331")}
		rule := NewBaseImageRule("Dockerfile", testImage, testEnvVar, src, discardLogger())

		oneSided := Record{Path: "Dockerfile", Diff: "-FROM " + priorRef + "\n+FROM " + testImage + "\n"}
		det, err := rule.Detect(ctx, oneSided)
		require.NoError(t, err)
		assert.True(t, det.Empty())
	})
}
