package controllers

import (
	"net/http"
	"strconv"

	"github.com/ordinalfs/ordinalfs/app/resources"
	"github.com/ordinalfs/ordinalfs/app/services"
	"github.com/ordinalfs/ordinalfs/pkg/bind"
	"github.com/ordinalfs/ordinalfs/pkg/middleware"
	"github.com/ordinalfs/ordinalfs/pkg/resource"
	"github.com/ordinalfs/ordinalfs/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{
		service: services.NewAuthService(),
	}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	token, refresh, err := c.service.Login(body.Email, body.Password)
	if err != nil {
		response.Unauthorized(w)
		return
	}

	response.Success(w, map[string]string{
		"token":         token,
		"refresh_token": refresh,
	})
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required,alpha_dash,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	acct, err := c.service.Register(body.Username, body.Email, body.Password)
	if err != nil {
		response.Error(w, http.StatusConflict, err.Error())
		return
	}

	response.Created(w, acct)
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	acct, err := c.service.Profile(id)
	if err != nil {
		response.NotFound(w)
		return
	}

	response.Success(w, acct)
}

// ListAccounts is an admin-only account directory, paginated via
// ?page=&limit= and shaped through resources.AccountResource so password
// hashes never reach the wire.
func (c *AuthController) ListAccounts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	accts, pagination, err := c.service.ListAccounts(page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	resource.CollectionOf(resources.AccountResource{}, accts).
		WithPagination(pagination).
		Respond(w)
}

func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var body struct {
		Username string `json:"username" validate:"nullable,alpha_dash,min=2,max=100"`
	}
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	acct, err := c.service.UpdateProfile(id, body.Username)
	if err != nil {
		response.NotFound(w)
		return
	}

	response.Success(w, acct)
}
