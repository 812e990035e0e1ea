// Package domain defines the capability model: a principal is privileged
// exactly when an Admin entry exists for it.
package domain

import "time"

// Admin grants the privileged capability to Principal.
type Admin struct {
	Principal string
	CreatedAt time.Time
}
