package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/rogerio-castellano/devstore-web/internal/catalog"
	"github.com/rogerio-castellano/devstore-web/internal/obs"
	"github.com/rogerio-castellano/devstore-web/internal/views"
)

var (
	notFoundPage = views.ErrorPage{
		Status:  http.StatusNotFound,
		Heading: "Produto não encontrado",
		Message: "O produto que você procura não existe ou foi removido do catálogo.",
	}
	catalogDownPage = views.ErrorPage{
		Status:  http.StatusBadGateway,
		Heading: "Catálogo indisponível",
		Message: "Não foi possível carregar os produtos agora. Tente novamente em instantes.",
	}
	internalErrorPage = views.ErrorPage{
		Status:  http.StatusInternalServerError,
		Heading: "Algo deu errado",
		Message: "Tivemos um problema ao montar esta página.",
	}
)

// errorPageFor maps a failed page build to what the visitor sees.
func errorPageFor(err error) views.ErrorPage {
	var se *catalog.StatusError
	switch {
	case catalog.IsNotFound(err):
		return notFoundPage
	case errors.Is(err, catalog.ErrUnreachable),
		errors.Is(err, catalog.ErrSchemaMismatch),
		errors.As(err, &se):
		return catalogDownPage
	default:
		return internalErrorPage
	}
}

func renderFetchError(w http.ResponseWriter, r *http.Request, err error) {
	page := errorPageFor(err)

	attrs := []any{
		"path", r.URL.Path,
		"status", page.Status,
		"error", err,
		"request_id", obs.RequestIDFromContext(r.Context()),
	}
	if page.Status == http.StatusNotFound {
		obs.Logger.Info("page_not_found", attrs...)
	} else {
		obs.Logger.Error("page_failed", attrs...)
	}

	renderErrorPage(w, page)
}

func renderErrorPage(w http.ResponseWriter, page views.ErrorPage) {
	var buf bytes.Buffer
	if err := views.RenderError(&buf, page); err != nil {
		obs.Logger.Error("render_error_page_failed", "error", err)
		http.Error(w, page.Heading, page.Status)
		return
	}
	writeHTML(w, page.Status, buf.Bytes())
}
