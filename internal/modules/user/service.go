package user

import "context"

// Service defines the interface for user-related business logic. It also
// serves as the owner directory the order module consults at placement time.
type Service interface {
	RegisterUser(ctx context.Context, email, password, name string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)

	// OwnerName resolves a user's display name, reporting found=false when
	// the id does not exist.
	OwnerName(ctx context.Context, id int64) (string, bool, error)
}
