package account

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginResponse struct {
	ServiceToken string       `json:"serviceToken"`
	User         UserResponse `json:"user"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

func (d RegisterDTO) Validate() error {
	switch {
	case d.Email == "":
		return ValidationError{Msg: "email is required"}
	case d.Password == "":
		return ValidationError{Msg: "password is required"}
	case d.FirstName == "":
		return ValidationError{Msg: "firstName is required"}
	case d.LastName == "":
		return ValidationError{Msg: "lastName is required"}
	}
	return nil
}

func (a *Account) ToResponse() UserResponse {
	return UserResponse{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}
