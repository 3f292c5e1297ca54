package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tenant-otp-service/internal/domain"
)

func TestNamespaceKeyIsolation(t *testing.T) {
	ns := Namespace{Prefix: "tenant"}

	t1 := &domain.Tenant{ID: "acme", Active: true}
	t2 := &domain.Tenant{ID: "globex", Active: true}

	assert.NotEqual(t, ns.Key(t1, "settings"), ns.Key(t2, "settings"))
	assert.NotEqual(t, ns.Key(t1, "settings"), ns.Key(nil, "settings"))
	assert.NotEqual(t, ns.Key(t2, "settings"), ns.Key(nil, "settings"))
}

func TestNamespaceNilTenantUsesSentinel(t *testing.T) {
	ns := Namespace{Prefix: "tenant"}

	assert.Equal(t, "tenant:none", ns.Tag(nil))
	assert.Equal(t, "tenant:none:settings", ns.Key(nil, "settings"))

	// Empty id is treated as absent, not as its own partition.
	assert.Equal(t, "tenant:none", ns.Tag(&domain.Tenant{ID: ""}))
}

func TestNamespaceKeysSharePrefixStableTag(t *testing.T) {
	ns := Namespace{Prefix: "tenant"}
	tn := &domain.Tenant{ID: "acme", Active: true}
	tag := ns.Tag(tn)

	for _, logical := range []string{"a", "settings", "otp:issued", "deep:nested:key"} {
		key := ns.Key(tn, logical)
		assert.True(t, strings.HasPrefix(key, tag+":"),
			"key %q should carry tag %q", key, tag)
	}

	// The tag depends on tenant identity only.
	assert.Equal(t, tag, ns.Tag(&domain.Tenant{ID: "acme", Active: false}))
}

func TestNamespaceDeterministic(t *testing.T) {
	ns := Namespace{Prefix: "tenant"}
	tn := &domain.Tenant{ID: "acme"}

	assert.Equal(t, ns.Key(tn, "k"), ns.Key(tn, "k"))
	assert.Equal(t, ns.Tag(tn), ns.Tag(tn))
}
