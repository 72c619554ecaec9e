package response

import "account-service/internal/data/entity"

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func AuthToResponse(user *entity.User, token string, needsConsent *bool) *AuthResponse {
	userResp := UserToResponse(user)
	userResp.NeedsConsent = needsConsent

	return &AuthResponse{
		User:  userResp,
		Token: token,
	}
}
