package user

// Principal is the identity produced by access-token introspection.
// The service stores only the opaque UserID; account data lives in the
// external account service.
type Principal struct {
	UserID   string
	Username string
}
