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
	"log/slog"

	"github.com/NVIDIA/autotag/pkg/change"
	"github.com/NVIDIA/autotag/pkg/version"
)

// TagPrefix is the literal prefix carried by release tag names.
const TagPrefix = "v"

// Decision is the outcome of folding one commit's change records: the prior
// version read from the tag list, the candidate next version, and which of
// the two tag operations to perform. CreateTag and ReseatTag are mutually
// exclusive by construction.
type Decision struct {
	Prior     *version.Strict
	Next      *version.Strict
	CreateTag bool
	ReseatTag bool
}

// TagName returns the tag name the decision operates on: the candidate next
// version when a new tag is created, else the prior version's existing tag.
func (d *Decision) TagName() string {
	if d.CreateTag {
		return TagPrefix + d.Next.String()
	}
	return TagPrefix + d.Prior.String()
}

// NoOp reports whether the decision requires no tag operation at all.
func (d *Decision) NoOp() bool {
	return !d.CreateTag && !d.ReseatTag
}

// Engine folds the detections from a commit's change records into a single
// tag decision. The logger is an explicit dependency so the engine stays
// free of package-level state and independently testable.
type Engine struct {
	scanner *change.Scanner
	logger  *slog.Logger
}

// New creates a decision engine over the given scanner.
func New(scanner *change.Scanner, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{scanner: scanner, logger: logger}
}

// Decide scans every change record in the caller-supplied order, reduces the
// accumulated severities to the single greatest one, and applies it to a
// working copy of the prior version. The prior version is never mutated and
// nothing is committed to the decision until all records have been folded,
// so a failing record leaves no partial state behind.
//
// A new tag is requested iff the working copy ends up different from the
// prior version; otherwise, if any record requested it, the existing tag is
// reseated to the current commit.
func (e *Engine) Decide(ctx context.Context, prior *version.Strict, records []change.Record) (*Decision, error) {
	var severities []version.Severity
	reseat := false

	for _, rec := range records {
		det, err := e.scanner.Scan(ctx, rec)
		if err != nil {
			return nil, err
		}
		severities = append(severities, det.Severities...)
		reseat = reseat || det.Reseat
	}

	working := prior.Clone()
	greatest, found := version.Reduce(severities)
	if found {
		applyBump(working, greatest)
	}

	decision := &Decision{
		Prior: prior,
		Next:  working.(*version.Strict),
	}
	switch {
	case !working.Equal(prior):
		decision.CreateTag = true
	case reseat:
		decision.ReseatTag = true
	}

	e.logger.Info("tag decision computed",
		"prior", decision.Prior.String(),
		"next", decision.Next.String(),
		"severity", string(greatest),
		"createTag", decision.CreateTag,
		"reseatTag", decision.ReseatTag)

	return decision, nil
}

// applyBump mutates the working copy per the severity convention: a higher
// severity bump resets every lower component to zero.
func applyBump(v version.Version, s version.Severity) {
	switch s {
	case version.SeverityPatch:
		v.Increment(version.ComponentPatch, 1)
	case version.SeverityMinor:
		v.Set(version.ComponentPatch, 0)
		v.Increment(version.ComponentMinor, 1)
	case version.SeverityMajor:
		v.Set(version.ComponentPatch, 0)
		v.Set(version.ComponentMinor, 0)
		v.Increment(version.ComponentMajor, 1)
	}
}
