// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
// Passwords only need to be present; no length policy is enforced.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin moderator"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the payload for profile updates. All fields are
// optional; only supplied fields are changed. A non-empty Role is an elevated
// change and requires admin privileges.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin moderator"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
// Using a dedicated struct instead of an inline anonymous struct in the
// handler improves clarity and compatibility with tooling like swag.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=user admin moderator"`
}

// BannerRequest carries the metadata fields of a banner create.
// The image itself arrives as a multipart file, not in this struct.
type BannerRequest struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"max=2000"`
	Link        string `validate:"omitempty,url"`
	IsActive    bool
}

// BannerUpdate is a partial banner update. Nil pointers mean "leave as is",
// which lets a multipart form distinguish an omitted field from an empty one.
type BannerUpdate struct {
	Title       *string
	Description *string
	Link        *string
	IsActive    *bool
	ImageURL    *string
}
