// Package repository defines the user directory interface and errors.
package repository

// Option applies a configuration option to the ListDirectory.
type Option func(*ListDirectory)

// WithSeed sets the users the directory starts with, in order.
// Later duplicates of a name are dropped so the seed cannot break the
// one-record-per-name invariant.
func WithSeed(users []User) Option {
	return func(d *ListDirectory) {
		seen := make(map[string]struct{}, len(users))
		d.users = make([]User, 0, len(users))
		for _, u := range users {
			if _, dup := seen[u.Name]; dup {
				continue
			}
			seen[u.Name] = struct{}{}
			d.users = append(d.users, u)
		}
	}
}
