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
	"fmt"
	"log/slog"
	"regexp"

	apperrors "github.com/NVIDIA/autotag/pkg/errors"
	"github.com/NVIDIA/autotag/pkg/version"
)

// BaseImageRule detects a digest change of the tracked container base image
// inside the container definition file. When the diff replaces one pinned
// digest of the image with another, the rule pulls both image configurations,
// extracts the upstream version from the tracked environment variable, and
// contributes the single greatest severity between the two upstream versions.
//
// A detected upstream major change is a hard policy stop: Detect returns an
// UPSTREAM_MAJOR_CHANGE structured error and the whole run aborts before any
// tag is touched.
type BaseImageRule struct {
	containerFile string
	image         string
	versionEnvVar string
	metadata      MetadataSource
	logger        *slog.Logger

	priorImageRe   *regexp.Regexp
	currentImageRe *regexp.Regexp
}

// NewBaseImageRule creates the base-image digest rule.
// containerFile is the tracked container definition path, image the base
// image whose digest is pinned (e.g. "jenkins/jenkins:lts"), and
// versionEnvVar the environment variable holding the upstream version in the
// image configuration (e.g. "JENKINS_VERSION").
func NewBaseImageRule(containerFile, image, versionEnvVar string, metadata MetadataSource, logger *slog.Logger) *BaseImageRule {
	if logger == nil {
		logger = slog.Default()
	}
	quoted := regexp.QuoteMeta(image)
	return &BaseImageRule{
		containerFile: containerFile,
		image:         image,
		versionEnvVar: versionEnvVar,
		metadata:      metadata,
		logger:        logger,
		// the diff orientation guarantees "-" lines are prior text and
		// "+" lines are current text
		priorImageRe:   regexp.MustCompile(`(?m)^-FROM (` + quoted + `@sha256:\w+)`),
		currentImageRe: regexp.MustCompile(`(?m)^\+FROM (` + quoted + `@sha256:\w+)`),
	}
}

// Name returns the rule identifier used in logs.
func (r *BaseImageRule) Name() string { return "base-image-digest" }

// Matches reports whether rec is the tracked container file and its diff
// carries a pinned-digest replacement for the tracked image. When the
// extraction pattern does not match, the generic container-definition rule
// handles the record instead.
func (r *BaseImageRule) Matches(rec Record) bool {
	return rec.Path == r.containerFile && r.priorImageRe.MatchString(rec.Diff)
}

// Detect classifies the upstream version transition between the prior and
// current image digests. A missing version environment variable in either
// image is not an error: the detection simply contributes nothing.
func (r *BaseImageRule) Detect(ctx context.Context, rec Record) (Detection, error) {
	priorRef := r.priorImageRe.FindStringSubmatch(rec.Diff)
	currentRef := r.currentImageRe.FindStringSubmatch(rec.Diff)
	if priorRef == nil || currentRef == nil {
		// digest added or removed outright, no transition to classify
		r.logger.Warn("base image digest change without both sides, skipping",
			"rule", r.Name(), "path", rec.Path)
		return Detection{}, nil
	}

	r.logger.Info("detected base image digest change",
		"path", rec.Path,
		"priorImage", priorRef[1],
		"currentImage", currentRef[1])

	priorVersion, ok, err := r.upstreamVersion(ctx, priorRef[1])
	if err != nil || !ok {
		return Detection{}, err
	}
	currentVersion, ok, err := r.upstreamVersion(ctx, currentRef[1])
	if err != nil || !ok {
		return Detection{}, err
	}

	r.logger.Info("comparing upstream versions",
		"prior", priorVersion.String(),
		"current", currentVersion.String())

	severities := version.Classify(priorVersion, currentVersion)
	greatest, found := version.Reduce(severities)
	if !found {
		return Detection{}, nil
	}
	if greatest == version.SeverityMajor {
		return Detection{}, apperrors.NewWithContext(
			apperrors.ErrCodeUpstreamMajorChange,
			fmt.Sprintf("upstream major version change (%s -> %s)", priorVersion, currentVersion),
			map[string]any{
				"priorVersion":   priorVersion.String(),
				"currentVersion": currentVersion.String(),
				"image":          r.image,
			})
	}

	return Detection{Severities: []version.Severity{greatest}}, nil
}

// upstreamVersion pulls the image configuration for ref and parses the
// tracked version environment variable as a relaxed version. The second
// return is false when the variable is absent.
func (r *BaseImageRule) upstreamVersion(ctx context.Context, ref string) (*version.Relaxed, bool, error) {
	env, err := r.metadata.ImageEnv(ctx, ref)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("fetching image configuration for %s", ref), err)
	}

	raw, ok := env[r.versionEnvVar]
	if !ok {
		// absence of the variable is not an error condition worth failing
		// the run over
		r.logger.Warn("image configuration has no version metadata, skipping detection",
			"image", ref, "envVar", r.versionEnvVar)
		return nil, false, nil
	}

	v, err := version.ParseRelaxed(raw)
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrCodeMalformedVersion,
			fmt.Sprintf("upstream version %q from %s", raw, ref), err)
	}
	return v, true, nil
}
