// Package version implements the two-level version model used to derive
// release tags, plus the classification of update severity between versions.
//
// # Overview
//
// Two concrete forms implement the shared Version capability:
//
//   - Strict: all three components are always explicit (e.g., "1.2.0").
//     This is the form release tags are parsed into.
//   - Relaxed: the patch component may be implicit, the form upstream
//     release lines publish (e.g., "2.333" as well as "2.333.3").
//
// An implicit patch is distinct from an explicit zero: "2.333" and "2.333.0"
// are different versions, and classifying one against the other reports a
// patch-level difference. Two implicit patches with equal major/minor are
// equal, so a minor-to-minor transition (2.333 -> 2.334) is never spuriously
// flagged as a patch change.
//
// Both forms accept pre-release and build metadata suffixes per the
// semver.org grammar; the suffixes are validated but not retained in the
// numeric triple used for comparisons. This package only performs difference
// detection on the triple, not full semver precedence ordering.
//
// # Usage
//
// Parse and compare:
//
//	prior, err := version.ParseRelaxed("2.330")
//	if err != nil {
//	    // Handle error
//	}
//	current := version.MustParseRelaxed("2.331.1")
//	severities := version.Classify(prior, current) // [minor patch]
//
// Fold multiple detections into the one that drives the bump:
//
//	greatest, ok := version.Reduce(severities)
//	if ok && greatest == version.SeverityMinor {
//	    next := prior.Clone()
//	    next.Set(version.ComponentPatch, 0)
//	    next.Increment(version.ComponentMinor, 1)
//	}
//
// # Severity Ordering
//
// Severities form a closed enumeration with an explicit ranking table,
// major > minor > patch. Reduce is associative and commutative over that
// order, so the outcome never depends on the order detections were observed.
//
// # Error Handling
//
//   - ErrMalformed: input does not match the version grammar
//   - ErrMissingPatch: a strict parse was given a two-part version
//
// For constant initialization and tests, MustParseStrict and MustParseRelaxed
// panic on error.
package version
