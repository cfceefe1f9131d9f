package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type RegisterRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role,omitempty"`
}

type RegisterResponse struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type SubmitEvidenceResponse struct {
	EvidenceID     string `json:"evidence_id"`
	ContentAddress string `json:"content_address"`
	FileHash       string `json:"file_hash"`
}
