package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pthm/formbuilder"
	"github.com/pthm/formbuilder/lib/generator"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr       string
		decorators []string
	)

	cmd := &cobra.Command{
		Use:   "serve <schema>",
		Short: "Serve a preview of the form that validates submissions",
		Long: `Serve renders the form of a schema on / and validates submissions
to it, re-rendering the form with its errors. Submissions made through
HTMX get only the form back. Validation metrics are exposed on /metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := generator.Load(args[0])
			if err != nil {
				return err
			}
			p := &preview{
				factory:    a.factory,
				settings:   a.settings,
				schema:     s,
				decorators: append([]string{"metrics"}, decorators...),
				registry:   a.registry,
				logger:     a.logger,
			}
			// Fail on a bad schema before listening.
			if _, err := p.form(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return p.listen(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().StringSliceVarP(&decorators, "decorator", "d", nil, "Decorators to attach (tidy, indent, bootstrap)")
	return cmd
}

// preview serves one schema form. A fresh form is built per request since
// submitting a form mutates it.
type preview struct {
	factory    *formbuilder.Factory
	settings   *settings
	schema     *generator.Schema
	decorators []string
	registry   *prometheus.Registry
	logger     *slog.Logger
}

func (p *preview) form() (*formbuilder.Form, error) {
	form, err := generator.Build(p.factory, p.schema)
	if err != nil {
		return nil, err
	}
	form.Hx("/", "", formbuilder.SwapOuter)
	if err := p.settings.decorate(p.factory, form, p.decorators...); err != nil {
		return nil, err
	}
	return form, nil
}

func (p *preview) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(p.logRequests)

	r.Get("/", p.handleForm)
	r.Post("/", p.handleForm)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	return r
}

func (p *preview) handleForm(w http.ResponseWriter, r *http.Request) {
	form, err := p.form()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var content templ.Component = form
	status := http.StatusOK
	if form.IsSubmitted(r) {
		if form.IsValid() {
			p.logger.Info("submission accepted", "form", form.Name())
			content = submitted(form.Values())
		} else if !formbuilder.IsHTMX(r) {
			// HTMX does not swap error responses.
			status = http.StatusUnprocessableEntity
		}
	}
	if !formbuilder.IsHTMX(r) {
		content = page(p.schema.Form, content)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formbuilder.Render(w, r, content); err != nil {
		p.logger.Error("render failed", "form", p.schema.Form, "error", err)
	}
}

func (p *preview) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		p.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"htmx", formbuilder.IsHTMX(r),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (p *preview) listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           p.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		p.logger.Info("serving form preview", "addr", addr, "form", p.schema.Form)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// page wraps content in a minimal HTML document that loads HTMX.
func page(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html>\n<head>\n<title>"+
			templ.EscapeString(title)+"</title>\n"+
			`<script src="https://unpkg.com/htmx.org@1.9.12"></script>`+
			"\n</head>\n<body>\n"); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
}

// submitted lists the accepted values.
func submitted(values map[string]any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		if _, err := io.WriteString(w, `<dl class="submitted">`+"\n"); err != nil {
			return err
		}
		for _, k := range keys {
			v := values[k]
			if v == nil {
				v = ""
			}
			line := fmt.Sprintf("<dt>%s</dt><dd>%s</dd>\n", templ.EscapeString(k), templ.EscapeString(fmt.Sprint(v)))
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</dl>")
		return err
	})
}
