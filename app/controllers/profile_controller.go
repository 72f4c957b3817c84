package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/pkg/bind"
	"github.com/citizenjaivik/jaivik/pkg/middleware"
	"github.com/citizenjaivik/jaivik/pkg/response"
)

// ProfileController manages the signed-in user's profile and address book.
// All routes sit behind the auth middleware, so the subject is always the
// phone number from the session token.
type ProfileController struct {
	profiles *services.ProfileService
}

func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

func writeProfileErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		response.Error(w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, services.ErrAddressNotFound):
		response.Error(w, http.StatusNotFound, "Address not found")
	case errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrInvalidPincode),
		errors.Is(err, services.ErrInvalidAddrType):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "Could not update profile")
	}
}

// Show returns the full profile document.
func (c *ProfileController) Show(w http.ResponseWriter, r *http.Request) {
	phone := middleware.SubjectFromCtx(r.Context())

	p, ok := c.profiles.Get(phone)
	if !ok {
		response.Error(w, http.StatusNotFound, "Profile not found")
		return
	}
	response.Success(w, p)
}

// Complete creates the profile after first sign-in.
func (c *ProfileController) Complete(w http.ResponseWriter, r *http.Request) {
	phone := middleware.SubjectFromCtx(r.Context())

	var body struct {
		Name    string `json:"name"    validate:"required,fullname"`
		Email   string `json:"email"   validate:"required,email"`
		Address string `json:"address" validate:"required,min=10"`
		Pincode string `json:"pincode" validate:"required,delivery_pincode"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.profiles.CompleteProfile(phone, body.Name, body.Email, body.Address, body.Pincode)
	if err != nil {
		writeProfileErr(w, err)
		return
	}
	response.Created(w, p)
}

// Update changes name and email.
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	phone := middleware.SubjectFromCtx(r.Context())

	var body struct {
		Name  string `json:"name"  validate:"required,fullname"`
		Email string `json:"email" validate:"required,email"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.profiles.UpdatePersonalInfo(phone, body.Name, body.Email)
	if err != nil {
		writeProfileErr(w, err)
		return
	}
	response.Success(w, p)
}

// Delete removes the account and every document belonging to it.
func (c *ProfileController) Delete(w http.ResponseWriter, r *http.Request) {
	phone := middleware.SubjectFromCtx(r.Context())

	if err := c.profiles.DeleteAccount(phone); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete account")
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}

type addressInput struct {
	Type      string `json:"type"      validate:"required,oneof=Home Work Other"`
	Name      string `json:"name"      validate:"required"`
	Phone     string `json:"phone"     validate:"required"`
	Address   string `json:"address"   validate:"required,min=10"`
	Pincode   string `json:"pincode"   validate:"required,delivery_pincode"`
	IsDefault bool   `json:"isDefault"`
}

func (in addressInput) toModel(id string) models.Address {
	return models.Address{
		ID:        id,
		Type:      in.Type,
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		Pincode:   in.Pincode,
		IsDefault: in.IsDefault,
	}
}

// AddAddress appends an address to the book.
func (c *ProfileController) AddAddress(w http.ResponseWriter, r *http.Request) {
	phone := middleware.SubjectFromCtx(r.Context())

	var in addressInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.profiles.AddAddress(phone, in.toModel(""))
	if err != nil {
		writeProfileErr(w, err)
		return
	}
	response.Created(w, p)
}

// UpdateAddress replaces an address's fields.
func (c *ProfileController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	phone := middleware.SubjectFromCtx(r.Context())
	id := chi.URLParam(r, "id")

	var in addressInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.profiles.UpdateAddress(phone, in.toModel(id))
	if err != nil {
		writeProfileErr(w, err)
		return
	}
	response.Success(w, p)
}

// DeleteAddress removes an address, promoting a new default if needed.
func (c *ProfileController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	phone := middleware.SubjectFromCtx(r.Context())
	id := chi.URLParam(r, "id")

	p, err := c.profiles.DeleteAddress(phone, id)
	if err != nil {
		writeProfileErr(w, err)
		return
	}
	response.Success(w, p)
}

// SetDefaultAddress moves the default flag.
func (c *ProfileController) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	phone := middleware.SubjectFromCtx(r.Context())
	id := chi.URLParam(r, "id")

	p, err := c.profiles.SetDefaultAddress(phone, id)
	if err != nil {
		writeProfileErr(w, err)
		return
	}
	response.Success(w, p)
}
