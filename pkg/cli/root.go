/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/autotag/pkg/logging"
	"github.com/NVIDIA/autotag/pkg/serializer"
)

const (
	name           = "autotag"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Shared flags used by every subcommand that runs the decision pipeline.
var (
	repoFlag = &cli.StringFlag{
		Name:    "repo",
		Aliases: []string{"C"},
		Usage:   "Path to the git repository to inspect (searches parent directories for .git)",
		Value:   ".",
		Sources: cli.EnvVars("AUTOTAG_REPO"),
	}

	containerFileFlag = &cli.StringFlag{
		Name:    "container-file",
		Usage:   "Tracked container-definition file, relative to the repository root",
		Value:   "Dockerfile",
		Sources: cli.EnvVars("AUTOTAG_CONTAINER_FILE"),
	}

	configFileFlag = &cli.StringFlag{
		Name:    "config-file",
		Usage:   "Tracked configuration-as-code file, relative to the repository root",
		Value:   "casc.yaml",
		Sources: cli.EnvVars("AUTOTAG_CONFIG_FILE"),
	}

	pluginManifestFlag = &cli.StringFlag{
		Name:    "plugin-manifest",
		Usage:   "Tracked plugin-manifest file, relative to the repository root",
		Value:   "plugins.txt",
		Sources: cli.EnvVars("AUTOTAG_PLUGIN_MANIFEST"),
	}

	baseImageFlag = &cli.StringFlag{
		Name:    "base-image",
		Usage:   "Base image reference whose digest pin is tracked in the container file",
		Value:   "jenkins/jenkins:lts",
		Sources: cli.EnvVars("AUTOTAG_BASE_IMAGE"),
	}

	versionEnvFlag = &cli.StringFlag{
		Name:    "version-env",
		Usage:   "Environment variable in the base image config that carries the upstream version",
		Value:   "JENKINS_VERSION",
		Sources: cli.EnvVars("AUTOTAG_VERSION_ENV"),
	}

	plainHTTPFlag = &cli.BoolFlag{
		Name:    "plain-http",
		Usage:   "Use plain HTTP for registry requests (local registries only)",
		Sources: cli.EnvVars("AUTOTAG_PLAIN_HTTP"),
	}

	insecureTLSFlag = &cli.BoolFlag{
		Name:    "insecure-tls",
		Usage:   "Skip TLS certificate verification for registry requests",
		Sources: cli.EnvVars("AUTOTAG_INSECURE_TLS"),
	}

	timeoutFlag = &cli.DurationFlag{
		Name:    "timeout",
		Usage:   "Timeout for the whole run, including registry pulls",
		Value:   2 * time.Minute,
		Sources: cli.EnvVars("AUTOTAG_TIMEOUT"),
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
		Sources: cli.EnvVars("AUTOTAG_OUTPUT"),
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage: fmt.Sprintf("Output format (supported values: %s)",
			serializer.SupportedFormats()),
		Value:   string(serializer.FormatJSON),
		Sources: cli.EnvVars("AUTOTAG_FORMAT"),
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Value:   "info",
		Sources: cli.EnvVars("AUTOTAG_LOG_LEVEL", logging.LevelEnvVar),
	}
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Derive and apply release tags from the most recent commit",
		Description: `Inspect the most recent commit of a repository, classify each changed file
(container base-image digest bump, general container-definition change,
configuration-as-code change, plugin-manifest change), and derive the next
release tag using semantic-versioning rules. Designed to run unattended in a
CI job after every merge to mainline.`,
		Flags: []cli.Flag{
			logLevelFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			initLogger(cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			decideCmd(),
			applyCmd(),
		},
	}
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger configures slog after flags are parsed so --log-level takes
// effect before any command executes. Every record carries a run id so
// interleaved CI log streams can be attributed to a single invocation.
func initLogger(logLevel string) {
	logger := logging.NewStructuredLogger(os.Stderr, name, version, logLevel).
		With("runID", uuid.NewString())
	slog.SetDefault(logger)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", logLevel)
}
