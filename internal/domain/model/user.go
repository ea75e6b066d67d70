// Package model contains domain models passed between layers.
package model

// User is one directory record. Name is the unique key and never changes
// after creation.
type User struct {
	Name       string `json:"name" koanf:"name"`
	Age        string `json:"age" koanf:"age"`
	Occupation string `json:"occupation" koanf:"occupation"`
}

// DefaultSeed returns the records the directory starts with.
// A fresh slice is returned on every call so callers may mutate it.
func DefaultSeed() []User {
	return []User{
		{Name: "Nick", Age: "20", Occupation: "Postman"},
		{Name: "Paul", Age: "25", Occupation: "Doctor"},
		{Name: "Rob", Age: "20", Occupation: "Engineer"},
	}
}
