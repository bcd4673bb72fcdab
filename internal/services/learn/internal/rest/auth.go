package rest

import (
	"net/http"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/httpx"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/service"
)

type registerRequest struct {
	Username         string `json:"username" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required"`
	NativeLanguage   string `json:"native_language" validate:"required"`
	LearningLanguage string `json:"learning_language" validate:"required"`
}

type loginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (api *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, invalidRequest(err, "invalid request body"))
		return
	}

	if err := api.check(req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	tok, err := api.auth.Register(r.Context(), service.RegisterRequest{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		NativeLanguage:   req.NativeLanguage,
		LearningLanguage: req.LearningLanguage,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeToken(w, r, tok)
}

func (api *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.HandleErr(w, r, invalidRequest(err, "invalid form body"))
		return
	}

	req := loginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := api.check(req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	tok, err := api.auth.Login(r.Context(), service.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeToken(w, r, tok)
}

func writeToken(w http.ResponseWriter, r *http.Request, tok service.Token) {
	err := httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}
