package models

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	UserId      string `json:"user_id"`
}

type CurrentUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
