// SPDX-License-Identifier: Apache-2.0

// Package ref provides intrusive smart pointers over objects allocated
// through the tracked allocation facade. Shared ownership (Ref) keeps the
// reference count embedded in the payload via Object; exclusive ownership
// (Unique) carries no count at all.
//
// Neither pointer is safe for concurrent use. The embedded count is a
// plain integer; callers that share a Ref across goroutines must add their
// own synchronization.
package ref
