package request

type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type StartEmailChangeRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

type StartPhoneChangeRequest struct {
	NewPhone string `json:"newPhone" validate:"required,e164"`
}

type VerifyChangeRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

type TermsConsentRequest struct {
	Version string `json:"version" validate:"required,max=50"`
}
