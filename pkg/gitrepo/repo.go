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
	"context"
	"errors"
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	apperrors "github.com/NVIDIA/autotag/pkg/errors"
)

// ErrNoTags indicates the repository has no tags to derive a prior version from.
var ErrNoTags = errors.New("repository has no tags")

// DefaultRemote is the remote tags are pushed to.
const DefaultRemote = "origin"

// Repository wraps a local git repository with the operations the tagging
// pipeline needs: reading the latest tag, diffing the head commit, and
// creating, deleting, and pushing tags.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository containing path, searching parent directories
// for the .git directory the way the git CLI does.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("opening repository at %q", path), err)
	}
	return &Repository{repo: repo}, nil
}

// LatestTag returns the lexicographically-last tag name in the repository.
func (r *Repository) LatestTag() (string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "listing tags", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "iterating tags", err)
	}
	if len(names) == 0 {
		return "", ErrNoTags
	}

	sort.Strings(names)
	return names[len(names)-1], nil
}

// CreateTag creates a lightweight tag at the current head commit.
func (r *Repository) CreateTag(name string) error {
	head, err := r.repo.Head()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "resolving head", err)
	}
	if _, err := r.repo.CreateTag(name, head.Hash(), nil); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("creating tag %q", name), err)
	}
	return nil
}

// DeleteTag deletes a local tag.
func (r *Repository) DeleteTag(name string) error {
	if err := r.repo.DeleteTag(name); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("deleting tag %q", name), err)
	}
	return nil
}

// PushTag pushes a tag ref to the default remote. The refspec is forced so
// a reseated tag overwrites its remote counterpart; the remote-side tag
// history is owned by this tool.
func (r *Repository) PushTag(ctx context.Context, name string) error {
	refspec := gitconfig.RefSpec(fmt.Sprintf("+refs/tags/%s:refs/tags/%s", name, name))
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: DefaultRemote,
		RefSpecs:   []gitconfig.RefSpec{refspec},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return apperrors.Wrap(apperrors.ErrCodeInternal,
			fmt.Sprintf("pushing tag %q", name), err)
	}
	return nil
}
