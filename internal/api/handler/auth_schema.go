package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerDomainRequest struct {
	Name string `json:"name" validate:"required"`
	Host string `json:"host" validate:"required,hostname_rfc1123"`
}

type registerRequest struct {
	Username string                 `json:"username" validate:"required,min=3"`
	Email    string                 `json:"email"    validate:"required,email"`
	Phone    string                 `json:"phone"    validate:"required"`
	Password string                 `json:"password" validate:"required,min=6"`
	Domain   *registerDomainRequest `json:"domain,omitempty"`
}

type domainResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Host      string    `json:"host"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type userResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Role      string          `json:"role"`
	Domain    *domainResponse `json:"domain,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// tokenResponse is returned by login and refresh. token_max_age is the
// access token lifetime in seconds so clients can schedule refreshes.
type tokenResponse struct {
	UserID       string `json:"user_id"`
	Host         string `json:"host"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	TokenMaxAge  int64  `json:"token_max_age"`
}

type refreshRequest struct {
	Token string `json:"token"`
}
