package adaptor

import (
	"encoding/json"
	"net/http"

	"account-service/internal/dto/request"
	"account-service/internal/usecase"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	users   usecase.UserService
	changes usecase.ChangeService
	log     *zap.Logger
}

func NewUserHandler(users usecase.UserService, changes usecase.ChangeService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		users:   users,
		changes: changes,
		log:     log,
	}
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, h.log, "get profile", err)
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved", map[string]any{"user": user})
}

// UpdateMe handles PUT /users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, "update profile", err)
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", map[string]any{"user": user})
}

// StartEmailChange handles POST /users/me/email/change/start
func (h *UserHandler) StartEmailChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.StartEmailChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.changes.StartEmailChange(r.Context(), userID, req.NewEmail); err != nil {
		respondError(w, h.log, "start email change", err)
		return
	}

	utils.ResponseSuccess(w, "Verification code sent to the new email address", nil)
}

// VerifyEmailChange handles POST /users/me/email/change/verify
func (h *UserHandler) VerifyEmailChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.VerifyChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.changes.VerifyEmailChange(r.Context(), userID, req.OTP); err != nil {
		respondError(w, h.log, "verify email change", err)
		return
	}

	utils.ResponseSuccess(w, "Email updated successfully", nil)
}

// StartPhoneChange handles POST /users/me/phone/change/start
func (h *UserHandler) StartPhoneChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.StartPhoneChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.changes.StartPhoneChange(r.Context(), userID, req.NewPhone); err != nil {
		respondError(w, h.log, "start phone change", err)
		return
	}

	utils.ResponseSuccess(w, "Verification code sent to the new phone number", nil)
}

// VerifyPhoneChange handles POST /users/me/phone/change/verify
func (h *UserHandler) VerifyPhoneChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.VerifyChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.changes.VerifyPhoneChange(r.Context(), userID, req.OTP); err != nil {
		respondError(w, h.log, "verify phone change", err)
		return
	}

	utils.ResponseSuccess(w, "Phone number updated successfully", nil)
}

// RecordTermsConsent handles POST /users/me/terms/consent
func (h *UserHandler) RecordTermsConsent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.TermsConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.users.RecordTermsConsent(r.Context(), userID, req.Version); err != nil {
		respondError(w, h.log, "record terms consent", err)
		return
	}

	utils.ResponseSuccess(w, "Terms consent recorded", nil)
}
