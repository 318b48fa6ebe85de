package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/i18n"
	"github.com/corray333/backend-labs/dukan/internal/service/models/profile"
	"github.com/corray333/backend-labs/dukan/internal/service/services/settingssvc"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/go-chi/chi/v5"
)

type service interface {
	StoreProfile(ctx context.Context) (profile.Store, error)
	UpdateStoreProfile(ctx context.Context, store profile.Store) error
	UserProfile(ctx context.Context) (profile.User, error)
	UpdateUserProfile(ctx context.Context, user profile.User) error
	Supplier(ctx context.Context) (profile.Supplier, error)
	UpdateSupplier(ctx context.Context, in profile.SupplierInput) (profile.Supplier, error)
	Notifications(ctx context.Context) ([]profile.Notification, error)
	SetNotification(ctx context.Context, id string, enabled bool) error
	Language(ctx context.Context) (string, error)
	SetLanguage(ctx context.Context, code string) error
	OnboardingComplete(ctx context.Context) (bool, error)
	CompleteOnboarding(ctx context.Context, in profile.Onboarding) error
	SkipOnboarding(ctx context.Context) error
	UpstockMessage(ctx context.Context, tr settingssvc.Translator) (profile.Upstock, error)
}

type translations interface {
	Load(code string) *i18n.Bundle
}

type notificationRequest struct {
	Enabled bool `json:"enabled"`
}

type languageBody struct {
	Language string `json:"language"`
}

type onboardingResponse struct {
	Complete bool `json:"complete"`
}

func StoreProfile(w http.ResponseWriter, r *http.Request, service service) {
	respond(w, r)(service.StoreProfile(r.Context()))
}

func UpdateStoreProfile(w http.ResponseWriter, r *http.Request, service service) {
	store := profile.Store{}
	if !decode(w, r, &store) {
		return
	}

	if err := service.UpdateStoreProfile(r.Context(), store); err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, store)
}

func UserProfile(w http.ResponseWriter, r *http.Request, service service) {
	respond(w, r)(service.UserProfile(r.Context()))
}

func UpdateUserProfile(w http.ResponseWriter, r *http.Request, service service) {
	user := profile.User{}
	if !decode(w, r, &user) {
		return
	}

	if err := service.UpdateUserProfile(r.Context(), user); err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, user)
}

func Supplier(w http.ResponseWriter, r *http.Request, service service) {
	respond(w, r)(service.Supplier(r.Context()))
}

func UpdateSupplier(w http.ResponseWriter, r *http.Request, service service) {
	in := profile.SupplierInput{}
	if !decode(w, r, &in) {
		return
	}

	respond(w, r)(service.UpdateSupplier(r.Context(), in))
}

func Notifications(w http.ResponseWriter, r *http.Request, service service) {
	respond(w, r)(service.Notifications(r.Context()))
}

func SetNotification(w http.ResponseWriter, r *http.Request, service service) {
	req := notificationRequest{}
	if !decode(w, r, &req) {
		return
	}

	if err := service.SetNotification(r.Context(), chi.URLParam(r, "id"), req.Enabled); err != nil {
		response.Error(w, r, err)

		return
	}

	Notifications(w, r, service)
}

func Language(w http.ResponseWriter, r *http.Request, service service) {
	code, err := service.Language(r.Context())
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, languageBody{Language: code})
}

func SetLanguage(w http.ResponseWriter, r *http.Request, service service) {
	req := languageBody{}
	if !decode(w, r, &req) {
		return
	}

	if err := service.SetLanguage(r.Context(), req.Language); err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, req)
}

func Onboarding(w http.ResponseWriter, r *http.Request, service service) {
	complete, err := service.OnboardingComplete(r.Context())
	if err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, onboardingResponse{Complete: complete})
}

func CompleteOnboarding(w http.ResponseWriter, r *http.Request, service service) {
	in := profile.Onboarding{}
	if !decode(w, r, &in) {
		return
	}

	if err := service.CompleteOnboarding(r.Context(), in); err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, onboardingResponse{Complete: true})
}

func SkipOnboarding(w http.ResponseWriter, r *http.Request, service service) {
	if err := service.SkipOnboarding(r.Context()); err != nil {
		response.Error(w, r, err)

		return
	}

	response.JSON(w, http.StatusOK, onboardingResponse{Complete: true})
}

// Upstock composes the restock message in the operator's language.
func Upstock(w http.ResponseWriter, r *http.Request, service service, translations translations) {
	code, err := service.Language(r.Context())
	if err != nil {
		response.Error(w, r, err)

		return
	}

	respond(w, r)(service.UpstockMessage(r.Context(), translations.Load(code)))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, r, err)

		return false
	}

	return true
}

// respond writes v or the error of a (value, error) call.
func respond(w http.ResponseWriter, r *http.Request) func(v any, err error) {
	return func(v any, err error) {
		if err != nil {
			response.Error(w, r, err)

			return
		}

		response.JSON(w, http.StatusOK, v)
	}
}
