// Package engine folds the change detections of one commit into a single
// tag decision.
//
// The engine owns the only mutable state of a run: a working copy of the
// prior version. All change records are scanned first, their severities
// accumulated and reduced to the single greatest one, and only then is the
// bump applied:
//
//	PATCH: patch+1
//	MINOR: patch=0, minor+1
//	MAJOR: patch=0, minor=0, major+1
//
// A new tag is created iff the resulting candidate differs from the prior
// version under literal component-wise equality. When it does not, and a
// record requested it, the existing tag is reseated (moved) to the current
// commit instead. The two outcomes are mutually exclusive by construction.
//
// The computation is deterministic and total over well-formed input: the
// same prior version and records always yield the same decision.
package engine
