// Package change classifies file-level change records from the most recent
// commit into update severities and side effects.
//
// # Detection Rules
//
// Rules are evaluated per record in a fixed priority order, first match wins:
//
//  1. BaseImageRule - the container definition replaced one pinned digest of
//     the tracked base image with another. Both image configurations are
//     pulled, the upstream versions extracted from the tracked environment
//     variable are classified, and the single greatest severity between them
//     is contributed. An upstream MAJOR change aborts the run.
//  2. ContainerFileRule - any other change to the container definition file
//     contributes MINOR.
//  3. ConfigFileRule - a change to the configuration-as-code file
//     contributes MINOR.
//  4. PluginManifestRule - a change to the plugin manifest contributes no
//     severity but requests a reseat of the existing tag.
//
// Because the base-image rule only matches when its digest-pair extraction
// pattern finds prior and current text, a Dockerfile edit that does not touch
// the pinned digest falls through to the generic container-file rule; the two
// never both fire for the same record.
//
// Diff text is expected to be oriented so lines beginning with "-" are the
// prior side and lines beginning with "+" the current side; pkg/gitrepo
// produces records in that orientation.
package change
