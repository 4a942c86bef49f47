package handlers

import (
	"bytes"
	"net/http"

	"github.com/rogerio-castellano/devstore-web/internal/views"
)

func HomePageHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderHome(&buf); err != nil {
		renderFetchError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// NotFoundHandler renders the error page for routes that do not exist.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	renderErrorPage(w, views.ErrorPage{
		Status:  http.StatusNotFound,
		Heading: "Página não encontrada",
		Message: "O endereço acessado não existe.",
	})
}
