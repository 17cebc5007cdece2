package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/tiffinbox/backend/api/responses"
	"github.com/tiffinbox/backend/api/validators"
	authsvc "github.com/tiffinbox/backend/internal/auth"
	"github.com/tiffinbox/backend/pkg/config"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/logger"
)

type sendOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type verifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

// AuthSendOTP issues a login passcode for the phone. The body may be JSON or
// a form post; mobile clients send both.
func AuthSendOTP(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sendOTPRequest
		if isJSONRequest(r) {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			payload.Phone = strings.TrimSpace(r.FormValue("phone"))
		}

		if payload.Phone == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "phone is required"))
			return
		}

		if err := svc.SendPasscode(r.Context(), payload.Phone); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "OTP sent")
	}
}

// AuthVerifyOTP checks the passcode, upserts the account, and sets the
// HTTP-only session cookie. The account document is the response body.
func AuthVerifyOTP(svc authsvc.Service, jwtCfg config.JWTConfig, secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload verifyOTPRequest
		if isJSONRequest(r) {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			payload.Phone = strings.TrimSpace(r.FormValue("phone"))
			payload.OTP = strings.TrimSpace(r.FormValue("otp"))
		}

		if payload.Phone == "" || payload.OTP == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "phone and otp required"))
			return
		}

		user, token, err := svc.VerifyPasscode(r.Context(), payload.Phone, payload.OTP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     jwtCfg.CookieName,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(jwtCfg.TokenTTL()),
			MaxAge:   int(jwtCfg.TokenTTL().Seconds()),
			HttpOnly: true,
			Secure:   secureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		responses.WriteSuccess(w, user)
	}
}

// AuthLogout clears the session cookie.
func AuthLogout(jwtCfg config.JWTConfig, secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     jwtCfg.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		responses.WriteMessage(w, http.StatusOK, "Logged out")
	}
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
