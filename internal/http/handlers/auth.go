package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"dineqr-order-service/internal/auth"
	"dineqr-order-service/pkg/response"
)

type signupRequest struct {
	HotelName string `json:"hotelName"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string `json:"token"`
	HotelID int64  `json:"hotelId"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// Signup registers a hotel together with its owner account.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	req.HotelName = strings.TrimSpace(req.HotelName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.HotelName == "" || req.Email == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "hotelName and email are required")
		return
	}
	if len(req.Password) < 8 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "password must be at least 8 characters")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	ctx := r.Context()
	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `select exists (select 1 from users where email = $1)`, req.Email).Scan(&exists); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if exists {
		response.Error(w, http.StatusConflict, "EMAIL_TAKEN", "an account with this email already exists")
		return
	}

	var hotelID int64
	if err := tx.QueryRow(ctx, `
		insert into hotels (name, address) values ($1, $2) returning id
	`, req.HotelName, strings.TrimSpace(req.Address)).Scan(&hotelID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	var userID int64
	if err := tx.QueryRow(ctx, `
		insert into users (hotel_id, email, password_hash, role)
		values ($1, $2, $3, $4)
		returning id
	`, hotelID, req.Email, passwordHash, auth.RoleHotelOwner).Scan(&userID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	token, err := auth.SignAccessToken(h.Config.JWTSecret, auth.Claims{
		UserID:  userID,
		HotelID: &hotelID,
		Email:   req.Email,
		Role:    auth.RoleHotelOwner,
	}, time.Duration(h.Config.JWTExpirySeconds)*time.Second)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	response.Created(w, authResponse{Token: token, HotelID: hotelID, Email: req.Email, Role: auth.RoleHotelOwner})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var (
		userID       int64
		hotelID      *int64
		passwordHash string
		role         string
	)
	err := h.DB.QueryRow(r.Context(), `
		select id, hotel_id, password_hash, role from users where email = $1
	`, req.Email).Scan(&userID, &hotelID, &passwordHash, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			return
		}
		h.writeDomainError(w, r, err)
		return
	}

	if !auth.CheckPassword(passwordHash, req.Password) {
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}

	token, err := auth.SignAccessToken(h.Config.JWTSecret, auth.Claims{
		UserID:  userID,
		HotelID: hotelID,
		Email:   req.Email,
		Role:    role,
	}, time.Duration(h.Config.JWTExpirySeconds)*time.Second)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	resp := authResponse{Token: token, Email: req.Email, Role: role}
	if hotelID != nil {
		resp.HotelID = *hotelID
	}
	response.Success(w, resp)
}
