package model

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleOwner  UserRole = "OWNER"
	RoleRenter UserRole = "RENTER"
)

// ApprovalStatus gates both users and books. Books of non-APPROVED owners
// cannot be rented.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Role         UserRole       `json:"role"`
	Status       ApprovalStatus `json:"status"`
	Wallet       float64        `json:"wallet"`
	Location     string         `json:"location"`
	PhoneNumber  string         `json:"phone_number"`
	CreatedAt    time.Time      `json:"created_at"`
}

// OwnerRow is a user row decorated with the number of books the owner
// uploaded, for the admin owner list.
type OwnerRow struct {
	User
	Uploads int64 `json:"upload"`
}

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"required,oneof=ADMIN OWNER RENTER"`
	Location    string `json:"location"`
	PhoneNumber string `json:"phone_number"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
