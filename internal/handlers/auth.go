package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/xelth-com/storesync/internal/models"
	"github.com/xelth-com/storesync/internal/normalizer"
	"github.com/xelth-com/storesync/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// 1. Find User (emails are stored folded)
	var user models.User
	if err := r.db.Where("email = ?", normalizer.FoldKey(loginReq.Email)).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 2. Check Password
	if !user.IsActive || !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 3. Update Last Login
	now := time.Now().UTC()
	if err := r.db.Model(&user).UpdateColumn("last_login", now).Error; err != nil {
		log.Printf("⚠️  Failed to update last login for %s: %v", user.ID, err)
	}

	// 4. Generate Tokens
	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": map[string]interface{}{
			"id":       user.ID,
			"email":    user.Email,
			"name":     user.DisplayName(),
			"role":     user.Role,
			"store_id": user.StoreID,
		},
	})
}
