// Package cli implements the command-line interface for the autotag tool.
//
// # Overview
//
// The autotag CLI derives release tags from the most recent commit of a
// repository. It classifies each changed file against a fixed set of tracked
// files (container definition, configuration-as-code, plugin manifest),
// reduces the detected update severities to the single greatest one, and
// computes the next semantic version tag. It is designed for unattended use
// in CI after every merge to mainline.
//
// # Commands
//
// decide - Compute the tag decision without touching any tags:
//
//	autotag decide [--repo DIR] [--format json|yaml|table] [--output FILE]
//
// apply - Compute the decision and create or reseat the tag:
//
//	autotag apply [--push]
//
// A major upstream version change in the tracked base image is a policy
// stop: both commands exit non-zero with a message naming the prior and
// current upstream versions, and no tag is created.
//
// # Global Flags
//
//	--repo, -C          Repository path (default: current directory)
//	--container-file    Tracked container-definition file (default: Dockerfile)
//	--config-file       Tracked configuration-as-code file (default: casc.yaml)
//	--plugin-manifest   Tracked plugin-manifest file (default: plugins.txt)
//	--base-image        Tracked base image reference
//	--version-env       Env var carrying the upstream version
//	--output, -o        Output file path (default: stdout)
//	--format, -t        Output format: json, yaml, table (default: json)
//	--log-level         Log level: debug, info, warn, error
//
// All flags can also be set through AUTOTAG_-prefixed environment variables.
package cli
