// Package formbuilderecho provides Echo framework integration for
// formbuilder forms.
//
// Handle a form on a route:
//
//	e := echo.New()
//	e.Match([]string{"GET", "POST"}, "/signup", formbuilderecho.Handle(
//	    func(c echo.Context) (*formbuilder.Form, error) { return newSignupForm(f), nil },
//	    func(c echo.Context, form *formbuilder.Form) error {
//	        save(form.Values())
//	        return c.Redirect(http.StatusSeeOther, "/welcome")
//	    },
//	))
//
// Or use Submitted and Render in your own handler.
package formbuilderecho

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/formbuilder"
)

// BuildFunc creates a fresh form for a request.
type BuildFunc func(c echo.Context) (*formbuilder.Form, error)

// ValidFunc handles a submitted form that passed validation.
type ValidFunc func(c echo.Context, form *formbuilder.Form) error

// Submitted reports whether the request submits form, applying the
// submitted values when it does.
//
//	if formbuilderecho.Submitted(c, form) && form.IsValid() {
//	    return save(form.Values())
//	}
func Submitted(c echo.Context, form *formbuilder.Form) bool {
	return form.IsSubmitted(c.Request())
}

// Render writes a templ component, such as a form, to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return formbuilderecho.Render(c, form)
//	}
func Render(c echo.Context, component templ.Component) error {
	return RenderStatus(c, http.StatusOK, component)
}

// RenderStatus is like Render with an explicit status code.
func RenderStatus(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response())
}

// Handle returns a handler that renders the form built by build and runs
// the submit cycle. A valid submission is passed to onValid; an invalid
// one re-renders the form with its errors (status 422, or 200 for HTMX
// requests so HTMX swaps the form in).
func Handle(build BuildFunc, onValid ValidFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := build(c)
		if err != nil {
			return err
		}
		if !Submitted(c, form) {
			return Render(c, form)
		}
		if form.IsValid() {
			return onValid(c, form)
		}
		status := http.StatusUnprocessableEntity
		if formbuilder.IsHTMX(c.Request()) {
			status = http.StatusOK
		}
		return RenderStatus(c, status, form)
	}
}
