package controllers

import (
	"errors"
	"net/http"

	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/config"
	"github.com/citizenjaivik/jaivik/pkg/bind"
	"github.com/citizenjaivik/jaivik/pkg/response"
)

// AuthController handles the OTP sign-in flow.
type AuthController struct {
	profiles *services.ProfileService
}

func NewAuthController(profiles *services.ProfileService) *AuthController {
	return &AuthController{profiles: profiles}
}

// RequestOTP issues a sign-in code for a mobile number. Outside production
// the code is echoed in the response since no SMS gateway is wired.
func (c *AuthController) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mobile string `json:"mobile" validate:"required,mobile10"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	code, err := c.profiles.RequestOTP(body.Mobile)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	data := map[string]interface{}{"sent": true}
	if config.AppEnv() != "production" {
		data["code"] = code
	}
	response.Success(w, data)
}

// VerifyOTP exchanges a valid code for a session token. profileRequired
// tells the client to collect profile details before shopping signed-in.
func (c *AuthController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mobile string `json:"mobile" validate:"required,mobile10"`
		Code   string `json:"code"   validate:"required,len=6,numeric"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	token, isNew, err := c.profiles.VerifyOTP(body.Mobile, body.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOTP) {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired code")
			return
		}
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	response.Success(w, map[string]interface{}{
		"token":           token,
		"profileRequired": isNew,
	})
}
