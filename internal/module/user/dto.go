package user

import "github.com/simp-lee/userdesk/internal/domain"

// UserForm represents the input for creating or updating a user. Binding
// failures surface as inline field messages; they never produce a toast and
// never reach the network.
type UserForm struct {
	FirstName string `json:"firstName" form:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" form:"lastName" binding:"required,max=100"`
	Age       int    `json:"age" form:"age" binding:"omitempty,min=1,max=120"`
	Gender    string `json:"gender" form:"gender" binding:"omitempty,oneof=male female"`
	Email     string `json:"email" form:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" form:"phone" binding:"omitempty,min=7,max=20"`
}

// ToUser converts the form into a domain User with no id.
func (f UserForm) ToUser() domain.User {
	return domain.User{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Age:       f.Age,
		Gender:    f.Gender,
		Email:     f.Email,
		Phone:     f.Phone,
	}
}

// FromUser fills a form from an existing record, for edit pages.
func FromUser(u domain.User) UserForm {
	return UserForm{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Gender:    u.Gender,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}
