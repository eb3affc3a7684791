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

package gitrepo

import (
	"strings"

	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"

	"github.com/NVIDIA/autotag/pkg/change"
	apperrors "github.com/NVIDIA/autotag/pkg/errors"
)

// HeadChanges returns one change record per file changed between the head
// commit and its first parent, in patch order. Diff text is oriented so
// lines prefixed "-" are the parent (prior) side and "+" the head (current)
// side. The record path is the post-change side; binary files yield a record
// with an empty diff. A root commit has nothing to diff against and yields
// no records.
func (r *Repository) HeadChanges() ([]change.Record, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "resolving head", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "reading head commit", err)
	}
	if commit.NumParents() == 0 {
		return nil, nil
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "reading parent commit", err)
	}
	patch, err := parent.Patch(commit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "computing patch", err)
	}

	var records []change.Record
	for _, fp := range patch.FilePatches() {
		records = append(records, change.Record{
			Path: filePatchPath(fp),
			Diff: renderFilePatch(fp),
		})
	}
	return records, nil
}

// filePatchPath returns the post-change path of a file patch, falling back
// to the pre-change path for deletions.
func filePatchPath(fp fdiff.FilePatch) string {
	from, to := fp.Files()
	if to != nil {
		return to.Path()
	}
	if from != nil {
		return from.Path()
	}
	return ""
}

// renderFilePatch flattens a file patch into unified-diff body text, one
// prefixed line per source line.
func renderFilePatch(fp fdiff.FilePatch) string {
	if fp.IsBinary() {
		return ""
	}

	var sb strings.Builder
	for _, chunk := range fp.Chunks() {
		var prefix string
		switch chunk.Type() {
		case fdiff.Add:
			prefix = "+"
		case fdiff.Delete:
			prefix = "-"
		default:
			prefix = " "
		}
		content := chunk.Content()
		trailingNewline := strings.HasSuffix(content, "\n")
		lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		for i, line := range lines {
			sb.WriteString(prefix)
			sb.WriteString(line)
			if i < len(lines)-1 || trailingNewline {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
