package chi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/filter"
	"github.com/Sergio973-web/buscador-mega/internal/domain/search/request"
)

// textRequestFromQuery parses the search query string leniently: malformed
// numbers fall back to their defaults and unknown sort values mean relevance.
func textRequestFromQuery(q url.Values, defaultPerPage int) request.Text {
	page := 1
	if p := intParam(q, "page"); p != nil {
		page = *p
	}

	perPage := defaultPerPage
	if pp := intParam(q, "perPage"); pp != nil {
		perPage = *pp
		if perPage == 0 {
			perPage = request.MinPerPage
		}
	}

	return request.NewText(
		strings.TrimSpace(stringParam(q, "q")),
		filterFromQuery(q),
		request.ParseSort(stringParam(q, "sort")),
		page,
		perPage,
		true,
	)
}

// filterFromQuery reads proveedor (comma list), minPrice and maxPrice.
func filterFromQuery(q url.Values) filter.Filter {
	var providers []string
	var bound *[]string
	if err := runtime.BindQueryParameter("form", false, false, "proveedor", q, &bound); err == nil && bound != nil {
		providers = *bound
	}
	return filter.New(providers, floatParam(q, "minPrice"), floatParam(q, "maxPrice"))
}

// Optional parameters bind through a pointer; nil means absent.
func stringParam(q url.Values, name string) string {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil || v == nil {
		return ""
	}
	return *v
}

func intParam(q url.Values, name string) *int {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
		return nil
	}
	return v
}

func floatParam(q url.Values, name string) *float64 {
	var v *float64
	if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
		return nil
	}
	return v
}

// readImagePart extracts the "imagen" file from a multipart body.
func readImagePart(r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(32 << 10); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", nil, fmt.Errorf("parse multipart: %w", err)
		}
		return "", nil, fmt.Errorf("parse multipart: %w: %w", domain.ErrImageRequired, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(imageField)
	if err != nil {
		return "", nil, fmt.Errorf("form file %q: %w", imageField, domain.ErrImageRequired)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", nil, domain.ErrImageRequired
	}
	return header.Filename, data, nil
}
