/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
)

func decideCmd() *cli.Command {
	return &cli.Command{
		Name:                  "decide",
		EnableShellCompletion: true,
		Usage:                 "Compute the tag decision for the most recent commit without touching any tags",
		Description: `Inspect the HEAD commit's change records, classify them against the tracked
files, and print the resulting tag decision:

  - prior:     the release version read from the latest tag
  - next:      the candidate next version after applying the highest severity
  - createTag: a new tag is warranted (next differs from prior)
  - reseatTag: the existing tag should be moved to the current commit

The decision can be output in JSON, YAML, or table format. No tag is created,
deleted, or pushed; use "autotag apply" for that.`,
		Flags: pipelineFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			_, decision, err := runPipeline(ctx, cmd)
			if err != nil {
				return err
			}

			slog.Info("decision computed",
				"prior", decision.Prior.String(),
				"next", decision.Next.String(),
				"createTag", decision.CreateTag,
				"reseatTag", decision.ReseatTag)

			return writeDecision(cmd, decision)
		},
	}
}
