// Package views renders the storefront pages from embedded html templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/devstore-web/internal/format"
	"github.com/rogerio-castellano/devstore-web/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const siteName = "devstore"

var (
	imageProxyMu  sync.RWMutex
	imageProxyURL string
)

// SetImageProxy routes product images through an external optimizer, called as
// <proxy>?url=<src>&w=<width>&q=<quality>. An empty value serves images as-is.
func SetImageProxy(proxy string) {
	imageProxyMu.Lock()
	imageProxyURL = proxy
	imageProxyMu.Unlock()
}

func imageSrc(src string, width, quality int) string {
	imageProxyMu.RLock()
	proxy := imageProxyURL
	imageProxyMu.RUnlock()

	if proxy == "" {
		return src
	}
	q := url.Values{}
	q.Set("url", src)
	q.Set("w", strconv.Itoa(width))
	q.Set("q", strconv.Itoa(quality))
	return proxy + "?" + q.Encode()
}

var funcs = template.FuncMap{
	"price": format.Price,
	"installment": func(amount decimal.Decimal) string {
		return format.Installment(amount, format.InstallmentCount)
	},
	"installments": func() int { return format.InstallmentCount },
	"image":        imageSrc,
	"pathSegment":  url.PathEscape,
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"home", "search", "product", "error"} {
		pages[name] = template.Must(
			template.New("layout.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/layout.tmpl", "templates/"+name+".tmpl"),
		)
	}
}

// HomePage is the landing page with the search form.
type HomePage struct{}

// SearchPage lists the products matching Query in catalog order.
type SearchPage struct {
	Query    string
	Products []models.Product
}

// ProductPage is the detail page of one product.
type ProductPage struct {
	Product models.Product
	Sizes   []string
}

// ErrorPage is the user-visible fallback for failed catalog fetches.
type ErrorPage struct {
	Status  int
	Heading string
	Message string
}

// productSizes are fixed labels; they are not part of the catalog data.
var productSizes = []string{"P", "M", "G"}

type layoutData struct {
	Title string
	Query string
	Page  any
}

func render(w io.Writer, name, title, query string, page any) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	full := siteName
	if title != "" {
		full = title + " | " + siteName
	}

	// Execute into a buffer so a template failure never leaves a half-written page.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", layoutData{Title: full, Query: query, Page: page}); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func RenderHome(w io.Writer) error {
	return render(w, "home", "", "", HomePage{})
}

func RenderSearch(w io.Writer, query string, products []models.Product) error {
	return render(w, "search", "Busca: "+query, query, SearchPage{Query: query, Products: products})
}

// RenderProduct renders the detail page; the product title is the page title.
func RenderProduct(w io.Writer, title string, p models.Product) error {
	return render(w, "product", title, "", ProductPage{Product: p, Sizes: productSizes})
}

func RenderError(w io.Writer, page ErrorPage) error {
	return render(w, "error", page.Heading, "", page)
}
