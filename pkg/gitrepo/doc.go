// Package gitrepo provides the repository-facing collaborators of the
// tagging pipeline: reading the latest tag, extracting per-file change
// records for the head commit, and the tag sink (create, delete, push).
//
// Tag operations are independent; nothing here assumes atomicity across
// them. Reseating a tag is performed by the caller as delete, then create,
// then push, and the push refspec is forced so the moved tag overwrites its
// remote counterpart.
package gitrepo
