package dto

type GoogleAuthRequest struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

type AuthResponse struct {
	Success        bool   `json:"success"`
	Role           string `json:"role"`
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
	IsVerified     bool   `json:"isVerified"`
	Token          string `json:"token"`
}

type RegisterBusinessRequest struct {
	BusinessName    string `json:"businessName" binding:"required"`
	BusinessAddress string `json:"businessAddress" binding:"required"`
	Pincode         string `json:"pincode" binding:"required"`
	Timing          string `json:"timing" binding:"required"`
	Category        string `json:"category"`
	Email           string `json:"email" binding:"required,email"`
}

type ProfileResponse struct {
	UserID             string `json:"userId"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	ProfilePicture     string `json:"profilePicture"`
	Role               string `json:"role"`
	IsVerified         bool   `json:"isVerified"`
	VerificationStatus string `json:"verificationStatus"`
	JoinedAt           string `json:"joinedAt"`
}

type PublicProfileResponse struct {
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
	Role           string `json:"role"`
	IsVerified     bool   `json:"isVerified"`
	JoinedAt       string `json:"joinedAt"`
}
