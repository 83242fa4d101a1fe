package models

type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Age      int    `json:"age,omitempty"`
	Phone    string `json:"phone,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ProfileUpdate is the partial body of PUT /profile.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Age      *int    `json:"age,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}
