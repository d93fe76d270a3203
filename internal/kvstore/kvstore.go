// Package kvstore provides the tiered key-value persistence behind the state
// stores: a durable file-backed tier and a session-scoped in-memory tier.
// Values are JSON-encoded. Writes are best-effort from the stores' point of
// view; errors are returned explicitly and callers decide to log-and-continue.
package kvstore

// Store is a flat key-value namespace of JSON-serializable values.
type Store interface {
	// Put serializes v as JSON and writes it under key.
	Put(key string, v any) error
	// Get reads key into dest. ok is false when the key is absent;
	// a present but unparsable value returns ok=false with an error.
	Get(key string, dest any) (ok bool, err error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Persisted key layout. Auth keys live in both tiers, the rest are
// durable-only. Per-user keys are namespaced with the user id.
const (
	KeyAuth      = "auth"
	KeyAuthToken = "authToken"
	KeyMaterials = "materials"
)

// ActivitiesKey returns the per-user activity log key.
func ActivitiesKey(userID string) string { return "activities_" + userID }

// DashboardKey returns the per-user dashboard aggregate key.
func DashboardKey(userID string) string { return "dashboard_" + userID }
