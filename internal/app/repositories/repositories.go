package repositories

import "cloud.google.com/go/firestore"

// Repositories bundles the Firestore-backed data access layer for dependency
// injection during bootstrap.
type Repositories struct {
	Students     *StudentRepository
	AccountIndex *AccountIndexRepository
}

// NewRepositories creates all repositories over one shared client.
func NewRepositories(client *firestore.Client) *Repositories {
	return &Repositories{
		Students:     NewStudentRepository(client),
		AccountIndex: NewAccountIndexRepository(client),
	}
}
