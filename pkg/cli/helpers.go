/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/autotag/pkg/change"
	"github.com/NVIDIA/autotag/pkg/engine"
	apperrors "github.com/NVIDIA/autotag/pkg/errors"
	"github.com/NVIDIA/autotag/pkg/gitrepo"
	"github.com/NVIDIA/autotag/pkg/registry"
	"github.com/NVIDIA/autotag/pkg/serializer"
	pkgversion "github.com/NVIDIA/autotag/pkg/version"
)

// exitCodePolicyStop is returned when a major upstream version change blocks
// automated tagging and an operator has to tag manually.
const exitCodePolicyStop = 2

// decisionView is the serializable projection of an engine decision for
// --format/--output rendering.
type decisionView struct {
	Prior     string `json:"prior" yaml:"prior"`
	Next      string `json:"next" yaml:"next"`
	Tag       string `json:"tag" yaml:"tag"`
	CreateTag bool   `json:"createTag" yaml:"createTag"`
	ReseatTag bool   `json:"reseatTag" yaml:"reseatTag"`
}

func newDecisionView(d *engine.Decision) decisionView {
	return decisionView{
		Prior:     engine.TagPrefix + d.Prior.String(),
		Next:      engine.TagPrefix + d.Next.String(),
		Tag:       d.TagName(),
		CreateTag: d.CreateTag,
		ReseatTag: d.ReseatTag,
	}
}

// parseOutputFormat parses and validates the output format from CLI command.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported values: %s)",
			outFormat, serializer.SupportedFormats())
	}
	return outFormat, nil
}

// pipelineFlags is the flag set shared by every command that runs the
// decision pipeline.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		repoFlag,
		containerFileFlag,
		configFileFlag,
		pluginManifestFlag,
		baseImageFlag,
		versionEnvFlag,
		plainHTTPFlag,
		insecureTLSFlag,
		timeoutFlag,
		outputFlag,
		formatFlag,
	}
}

// runPipeline opens the repository, reads the prior version from the latest
// tag, scans the HEAD commit's change records, and folds them into a single
// tag decision. The returned repository handle is already open so callers can
// apply the decision to it.
func runPipeline(ctx context.Context, cmd *cli.Command) (*gitrepo.Repository, *engine.Decision, error) {
	logger := slog.Default()

	repo, err := gitrepo.Open(cmd.String("repo"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open repository at %q: %w", cmd.String("repo"), err)
	}

	latestTag, err := repo.LatestTag()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve latest tag: %w", err)
	}

	prior, err := pkgversion.ParseStrict(strings.TrimPrefix(latestTag, engine.TagPrefix))
	if err != nil {
		return nil, nil, fmt.Errorf("latest tag %q is not a release version: %w", latestTag, err)
	}

	records, err := repo.HeadChanges()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to diff HEAD against its parent: %w", err)
	}
	logger.Debug("collected change records", "latestTag", latestTag, "count", len(records))

	client := registry.NewClient(
		registry.WithPlainHTTP(cmd.Bool("plain-http")),
		registry.WithInsecureTLS(cmd.Bool("insecure-tls")),
	)

	scanner := change.NewScanner(logger,
		change.NewBaseImageRule(
			cmd.String("container-file"),
			cmd.String("base-image"),
			cmd.String("version-env"),
			client,
			logger,
		),
		change.NewContainerFileRule(cmd.String("container-file")),
		change.NewConfigFileRule(cmd.String("config-file")),
		change.NewPluginManifestRule(cmd.String("plugin-manifest")),
	)

	decision, err := engine.New(scanner, logger).Decide(ctx, prior, records)
	if err != nil {
		return nil, nil, decideError(err)
	}

	return repo, decision, nil
}

// decideError maps engine errors to operator-facing CLI errors. A major
// upstream version change is a policy stop with its own exit code and a
// message naming both versions so the operator can tag manually.
func decideError(err error) error {
	if !apperrors.IsCode(err, apperrors.ErrCodeUpstreamMajorChange) {
		return err
	}

	prior, current := "unknown", "unknown"
	var serr *apperrors.StructuredError
	if errors.As(err, &serr) {
		if v, ok := serr.Context["priorVersion"].(string); ok {
			prior = v
		}
		if v, ok := serr.Context["currentVersion"].(string); ok {
			current = v
		}
	}

	msg := fmt.Sprintf(`
WARNING: The tracked base image has had a major upstream version update.
(%s -> %s)
Manual tagging will need to occur for this kind of update.
`, prior, current)
	return cli.Exit(msg, exitCodePolicyStop)
}

// writeDecision renders the decision in the format and destination the
// command asked for.
func writeDecision(cmd *cli.Command, decision *engine.Decision) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	return ser.Serialize(newDecisionView(decision))
}
