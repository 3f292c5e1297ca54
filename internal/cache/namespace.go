// internal/cache/namespace.go

package cache

import (
	"fmt"

	"tenant-otp-service/internal/domain"
)

// Namespace derives tenant-scoped cache keys and invalidation tags. It holds
// no state and is safe for unsynchronized concurrent use.
type Namespace struct {
	Prefix string
}

// Tag returns the invalidation tag shared by every key issued for t. It is a
// function of the tenant identity only, never of a logical key.
func (n Namespace) Tag(t *domain.Tenant) string {
	return fmt.Sprintf("%s:%s", n.Prefix, t.PartitionID())
}

// Key returns the namespaced form of logical for t. Every key starts with
// Tag(t) followed by a separator, which is what makes tag-scoped flushes
// exact: two distinct tenants can never produce the same key.
func (n Namespace) Key(t *domain.Tenant, logical string) string {
	return fmt.Sprintf("%s:%s", n.Tag(t), logical)
}
