/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/autotag/pkg/engine"
	"github.com/NVIDIA/autotag/pkg/gitrepo"
)

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "apply",
		EnableShellCompletion: true,
		Usage:                 "Compute the tag decision for the most recent commit and apply it",
		Description: `Run the same decision pipeline as "autotag decide", then apply the outcome
to the repository:

  - createTag: create the next version tag at HEAD
  - reseatTag: delete the existing tag and recreate it at HEAD
  - neither:   leave the repository untouched

With --push the affected tag ref is pushed to the origin remote; reseated
tags are force-pushed since the ref moves to a different commit.`,
		Flags: append(pipelineFlags(),
			&cli.BoolFlag{
				Name:    "push",
				Usage:   "Push the created or reseated tag to the origin remote",
				Sources: cli.EnvVars("AUTOTAG_PUSH"),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			repo, decision, err := runPipeline(ctx, cmd)
			if err != nil {
				return err
			}

			if err := applyDecision(ctx, repo, decision, cmd.Bool("push")); err != nil {
				return err
			}

			return writeDecision(cmd, decision)
		},
	}
}

// applyDecision performs the tag operations the decision calls for. The
// reseat path is delete-then-create-then-push with no atomicity assumption;
// an interrupted reseat is repaired by rerunning against the same commit.
func applyDecision(ctx context.Context, repo *gitrepo.Repository, decision *engine.Decision, push bool) error {
	tag := decision.TagName()

	switch {
	case decision.CreateTag:
		if err := repo.CreateTag(tag); err != nil {
			return fmt.Errorf("failed to create tag %q: %w", tag, err)
		}
		slog.Info("created tag", "tag", tag)

	case decision.ReseatTag:
		if err := repo.DeleteTag(tag); err != nil {
			return fmt.Errorf("failed to delete tag %q for reseat: %w", tag, err)
		}
		if err := repo.CreateTag(tag); err != nil {
			return fmt.Errorf("failed to recreate tag %q at HEAD: %w", tag, err)
		}
		slog.Info("reseated tag at HEAD", "tag", tag)

	default:
		slog.Info("no tag operation required", "tag", tag)
		return nil
	}

	if !push {
		return nil
	}

	if err := repo.PushTag(ctx, tag); err != nil {
		return fmt.Errorf("failed to push tag %q: %w", tag, err)
	}
	slog.Info("pushed tag", "tag", tag, "remote", gitrepo.DefaultRemote)

	return nil
}
