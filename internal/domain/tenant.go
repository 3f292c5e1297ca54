// internal/domain/tenant.go

package domain

// Tenant identifies one isolated customer context. A nil *Tenant is a valid
// state meaning "no tenant context"; cache keys issued without a tenant land
// in the reserved global partition and never collide with a real tenant's.
type Tenant struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

// NoTenantID is the reserved partition token used when no tenant is bound.
// Tenant provisioning is expected to never hand out this value as a real id;
// this package validates nothing and relies on that guarantee.
const NoTenantID = "none"

// PartitionID returns the cache partition token for t. Safe on a nil receiver.
func (t *Tenant) PartitionID() string {
	if t == nil || t.ID == "" {
		return NoTenantID
	}
	return t.ID
}
