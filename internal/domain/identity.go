package domain

// Identity is the verified caller for the current request. It is re-derived
// from storage on every request rather than cached, so a deleted or demoted
// account loses access on its next request even while its token is still
// cryptographically valid.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
