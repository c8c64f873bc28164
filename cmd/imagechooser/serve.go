package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	imagechooser "github.com/goliatone/go-imagechooser"
	"github.com/goliatone/go-imagechooser/components/imagesearch"
	"github.com/goliatone/go-imagechooser/pkg/images"
	"github.com/goliatone/go-imagechooser/pkg/logging"
	"github.com/goliatone/go-imagechooser/pkg/render/template"
	"github.com/goliatone/go-imagechooser/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var pageTemplates embed.FS

const (
	fieldName = "image"
	fieldID   = "id_image"
)

type server struct {
	kit    *imagechooser.Kit
	pages  template.TemplateRenderer
	logger zerolog.Logger
}

func newRouter(kit *imagechooser.Kit, logger zerolog.Logger) (http.Handler, error) {
	pages, err := gotemplate.New(gotemplate.WithFS(pageTemplates))
	if err != nil {
		return nil, err
	}
	s := &server{kit: kit, pages: pages, logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)

	r.Get("/", s.handlePage)
	r.Get("/telepath", s.handleTelepath)
	r.Get("/images/{id}", s.handleImage)

	search := imagesearch.New(
		imagesearch.WithRepository(kit.Repository),
		imagesearch.WithLogger(logging.WithComponent(logger, "imagesearch")),
	)
	if _, err := search.RegisterRoutes(r, "/"); err != nil {
		return nil, err
	}

	if prefix := kit.Static.Prefix(); strings.HasPrefix(prefix, "/") && !strings.HasPrefix(prefix, "//") {
		fileServer := http.StripPrefix(prefix, http.FileServerFS(imagechooser.StaticAssetsFS()))
		r.Handle(prefix+"*", fileServer)
	}
	return r, nil
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	value := strings.TrimSpace(r.URL.Query().Get(fieldName))

	widget, err := s.kit.Render(ctx, fieldName, value, map[string]string{"id": fieldID})
	if err != nil {
		s.fail(w, err)
		return
	}
	payload, adapterMedia, err := s.kit.Pack(ctx, map[string]any{fieldName: s.kit.Chooser})
	if err != nil {
		s.fail(w, err)
		return
	}

	page, err := s.pages.RenderTemplate("templates/page", map[string]any{
		"locale":       s.kit.Config.Locale,
		"label":        "Image",
		"id_for_label": s.kit.Chooser.IDForLabel(fieldID),
		"widget":       widget,
		"telepath":     string(payload),
		"media":        s.kit.Media().Merge(adapterMedia).Render(),
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *server) handleTelepath(w http.ResponseWriter, r *http.Request) {
	payload, assets, err := s.kit.Pack(r.Context(), map[string]any{fieldName: s.kit.Chooser})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"widgets": json.RawMessage(payload),
		"media":   assets,
	})
}

// handleImage returns the chooser value data, as the chosen-image modal step
// would post it back to the widget.
func (s *server) handleImage(w http.ResponseWriter, r *http.Request) {
	data, err := s.kit.Chooser.GetValueData(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if data == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": images.ErrImageNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, context.Canceled) {
		status = http.StatusRequestTimeout
	}
	s.logger.Error().Err(err).Msg("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
