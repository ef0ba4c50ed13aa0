package users

import "time"

// Address is one saved delivery address on a user profile.
type Address struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// User is an account. Wishlist holds product ids; responses populate them
// into full products. The password hash never leaves this package.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Wishlist  []string  `json:"wishlist"`
	Addresses []Address `json:"addresses"`
	CreatedAt time.Time `json:"createdAt"`

	passwordHash string
}

// NewUser is the signup payload.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
