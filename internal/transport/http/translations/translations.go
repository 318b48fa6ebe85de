package translations

import (
	"net/http"

	"github.com/corray333/backend-labs/dukan/internal/i18n"
	"github.com/corray333/backend-labs/dukan/internal/transport/http/response"
	"github.com/go-chi/chi/v5"
)

type catalog interface {
	Load(code string) *i18n.Bundle
	Languages() []string
}

type languagesResponse struct {
	Languages []string `json:"languages"`
	Default   string   `json:"default"`
}

func Languages(w http.ResponseWriter, _ *http.Request, catalog catalog) {
	response.JSON(w, http.StatusOK, languagesResponse{
		Languages: catalog.Languages(),
		Default:   i18n.DefaultLanguage,
	})
}

// Bundle returns the messages for {lang}. Unknown codes get the default
// bundle; the response names the language actually served.
func Bundle(w http.ResponseWriter, r *http.Request, catalog catalog) {
	response.JSON(w, http.StatusOK, catalog.Load(chi.URLParam(r, "lang")))
}
