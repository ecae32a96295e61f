package property

// Property is a bookable unit owned by exactly one tenant.
type Property struct {
	ID       string
	TenantID string
	Name     string
	Timezone string
}
