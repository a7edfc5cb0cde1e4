// Package policy provides authorization decisions for post operations.
package policy

import "github.com/inkpost/inkpost/internal/post"

// Action represents a policy decision for a resource-scoped post operation.
type Action int

const (
	// ActionRead allows fetching a single post.
	ActionRead Action = iota + 1
	// ActionUpdate allows replacing a post's editable fields.
	ActionUpdate
	// ActionDelete allows removing a post.
	ActionDelete
)

// Can reports whether the user can perform the action on the post.
//
// Ownership is the whole policy: the owner may read, update, and delete;
// everyone else may not. Existence is checked by the caller before this
// decision, so a denial always means 403 rather than 404.
func Can(userID int64, action Action, p post.Post) bool {
	if userID <= 0 || p.OwnerID != userID {
		return false
	}
	return action == ActionRead || action == ActionUpdate || action == ActionDelete
}
