package authz

// Scope restricts a listing to the records a principal may see.
type Scope struct {
	Restricted bool
	OwnerID    string
}

// Unscoped matches every record.
var Unscoped = Scope{}

// Owner returns the owning user id to filter on, or nil when unscoped.
func (s Scope) Owner() *string {
	if !s.Restricted {
		return nil
	}
	id := s.OwnerID
	return &id
}
