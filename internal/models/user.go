package models

type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Age      float64  `json:"age"`
	Hobbies  []string `json:"hobbies"`
}

// CreateUser is the validated request body for create and update.
type CreateUser struct {
	Username string   `json:"username" validate:"required"`
	Age      float64  `json:"age" validate:"required"`
	Hobbies  []string `json:"hobbies" validate:"required"`
}

func NewUser(id string, req *CreateUser) *User {
	hobbies := make([]string, len(req.Hobbies))
	copy(hobbies, req.Hobbies)

	return &User{
		ID:       id,
		Username: req.Username,
		Age:      req.Age,
		Hobbies:  hobbies,
	}
}
