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

package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/autotag/pkg/change"
	apperrors "github.com/NVIDIA/autotag/pkg/errors"
	"github.com/NVIDIA/autotag/pkg/version"
)

const (
	testImage  = "jenkins/jenkins:lts"
	testEnvVar = "JENKINS_VERSION"
)

type fakeMetadataSource struct {
	env map[string]map[string]string
}

func (f *fakeMetadataSource) ImageEnv(_ context.Context, ref string) (map[string]string, error) {
	return f.env[ref], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine builds an engine with the full rule set and a metadata
// source serving the given upstream versions for the aaa111/bbb222 digests.
func newTestEngine(priorUpstream, currentUpstream string) *Engine {
	src := &fakeMetadataSource{env: map[string]map[string]string{
		testImage + "@sha256:aaa111": {testEnvVar: priorUpstream},
		testImage + "@sha256:bbb222": {testEnvVar: currentUpstream},
	}}
	scanner := change.NewScanner(discardLogger(),
		change.NewBaseImageRule("Dockerfile", testImage, testEnvVar, src, discardLogger()),
		change.NewContainerFileRule("Dockerfile"),
		change.NewConfigFileRule("casc.yaml"),
		change.NewPluginManifestRule("plugins.txt"),
	)
	return New(scanner, discardLogger())
}

func digestDiff() string {
	return "-FROM " + testImage + "@sha256:aaa111\n" +
		"+FROM " + testImage + "@sha256:bbb222\n"
}

func TestDecideConfigChangeCreatesMinorTag(t *testing.T) {
	eng := newTestEngine("2.330", "2.330")
	prior := version.MustParseStrict("1.2.0")

	decision, err := eng.Decide(context.Background(), prior, []change.Record{
		{Path: "casc.yaml", Diff: "+jenkins:\n+  numExecutors: 4\n"},
	})
	require.NoError(t, err)

	assert.True(t, decision.CreateTag)
	assert.False(t, decision.ReseatTag)
	assert.Equal(t, "1.3.0", decision.Next.String())
	assert.Equal(t, "v1.3.0", decision.TagName())
	assert.Equal(t, "1.2.0", decision.Prior.String(), "prior must never be mutated")
}

func TestDecideTwoMinorDetectionsAreNotDoubled(t *testing.T) {
	eng := newTestEngine("2.330", "2.330")
	prior := version.MustParseStrict("1.2.0")

	decision, err := eng.Decide(context.Background(), prior, []change.Record{
		{Path: "casc.yaml", Diff: "+foo\n"},
		{Path: "Dockerfile", Diff: "+RUN apt-get update\n"},
	})
	require.NoError(t, err)

	assert.True(t, decision.CreateTag)
	assert.Equal(t, "1.3.0", decision.Next.String(), "two MINOR detections still bump once")
}

func TestDecideUpstreamMinorBump(t *testing.T) {
	eng := newTestEngine("2.330", "2.331")
	prior := version.MustParseStrict("1.2.0")

	decision, err := eng.Decide(context.Background(), prior, []change.Record{
		{Path: "Dockerfile", Diff: digestDiff()},
	})
	require.NoError(t, err)

	assert.True(t, decision.CreateTag)
	assert.Equal(t, "1.3.0", decision.Next.String())
}

func TestDecideUpstreamMajorAborts(t *testing.T) {
	eng := newTestEngine("2.330", "3.1")
	prior := version.MustParseStrict("1.2.0")

	decision, err := eng.Decide(context.Background(), prior, []change.Record{
		{Path: "Dockerfile", Diff: digestDiff()},
	})
	require.Error(t, err)
	assert.Nil(t, decision, "no decision may be produced on a policy stop")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamMajorChange))
}

func TestDecidePluginManifestOnlyReseats(t *testing.T) {
	eng := newTestEngine("2.330", "2.330")
	prior := version.MustParseStrict("1.2.0")

	decision, err := eng.Decide(context.Background(), prior, []change.Record{
		{Path: "plugins.txt", Diff: "+git:5.2.0\n"},
	})
	require.NoError(t, err)

	assert.False(t, decision.CreateTag)
	assert.True(t, decision.ReseatTag)
	assert.Equal(t, "1.2.0", decision.Next.String())
	assert.Equal(t, "v1.2.0", decision.TagName())
}

func TestDecideReseatSuppressedByVersionBump(t *testing.T) {
	// create and reseat are mutually exclusive: a version bump wins
	eng := newTestEngine("2.330", "2.330")
	prior := version.MustParseStrict("1.2.0")

	decision, err := eng.Decide(context.Background(), prior, []change.Record{
		{Path: "plugins.txt", Diff: "+git:5.2.0\n"},
		{Path: "casc.yaml", Diff: "+foo\n"},
	})
	require.NoError(t, err)

	assert.True(t, decision.CreateTag)
	assert.False(t, decision.ReseatTag)
	assert.Equal(t, "1.3.0", decision.Next.String())
}

func TestDecideNoRelevantChangesIsNoOp(t *testing.T) {
	eng := newTestEngine("2.330", "2.330")
	prior := version.MustParseStrict("1.2.0")

	decision, err := eng.Decide(context.Background(), prior, []change.Record{
		{Path: "README.md", Diff: "+docs\n"},
	})
	require.NoError(t, err)

	assert.True(t, decision.NoOp())
	assert.Equal(t, "1.2.0", decision.Next.String())
}

func TestDecideMajorBumpZeroesLowerComponents(t *testing.T) {
	// the aggregation convention, exercised through applyBump directly since
	// the only MAJOR-producing rule is a policy stop
	working := version.MustParseStrict("1.4.7")
	applyBump(working, version.SeverityMajor)
	assert.Equal(t, "2.0.0", working.String())

	working = version.MustParseStrict("1.4.7")
	applyBump(working, version.SeverityMinor)
	assert.Equal(t, "1.5.0", working.String())

	working = version.MustParseStrict("1.4.7")
	applyBump(working, version.SeverityPatch)
	assert.Equal(t, "1.4.8", working.String())
}

func TestDecideIsIdempotent(t *testing.T) {
	eng := newTestEngine("2.330", "2.331")
	prior := version.MustParseStrict("1.2.0")
	records := []change.Record{
		{Path: "Dockerfile", Diff: digestDiff()},
		{Path: "casc.yaml", Diff: "+foo\n"},
	}

	first, err := eng.Decide(context.Background(), prior, records)
	require.NoError(t, err)
	second, err := eng.Decide(context.Background(), prior, records)
	require.NoError(t, err)

	assert.Equal(t, first.Next.String(), second.Next.String())
	assert.Equal(t, first.CreateTag, second.CreateTag)
	assert.Equal(t, first.ReseatTag, second.ReseatTag)
}
