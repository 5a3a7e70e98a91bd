// Package api is the HTTP serving layer: it parses request parameters,
// guards privileged routes with the session middleware, and maps service
// results and errors onto transport responses.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/dbrnz/flatmap-server/internal/annotator"
	"github.com/dbrnz/flatmap-server/internal/flatmap"
)

// Router wires the annotation service and the flatmap catalog into the
// HTTP route tree.
type Router struct {
	svc     *annotator.Service
	catalog *flatmap.Catalog
	log     zerolog.Logger
}

// New returns a Router serving the given service and catalog.
func New(svc *annotator.Service, catalog *flatmap.Catalog, log zerolog.Logger) *Router {
	return &Router{
		svc:     svc,
		catalog: catalog,
		log:     log.With().Str("component", "api").Logger(),
	}
}

// Handler builds the route tree. Map viewers are browser clients on other
// origins, so CORS stays permissive, matching the original deployment.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(rt.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", rt.listMaps)

	r.Route("/flatmap/{mapID}", func(r chi.Router) {
		r.Get("/", rt.mapIndex)
		r.Get("/tilejson", rt.mapFile("tilejson.json"))
		r.Get("/style", rt.mapFile("style.json"))
		r.Get("/styled", rt.mapFile("styled.json"))
		r.Get("/markers", rt.mapFile("markers.json"))
		r.Get("/annotations", rt.mapRDFAnnotations)
		r.Get("/layers", rt.mapMetadata("layers"))
		r.Get("/metadata", rt.mapMetadata("annotations"))
		r.Get("/pathways", rt.mapMetadata("pathways"))
		r.Get("/images/{image}", rt.mapImage)
		r.Get("/mvtiles/{z}/{x}/{y}", rt.vectorTile)
		r.Get("/tiles/{layer}/{z}/{x}/{y}", rt.imageTile)
	})

	r.Route("/annotator", func(r chi.Router) {
		r.Get("/authenticate", rt.authenticate)
		r.Get("/unauthenticate", rt.unauthenticate)
		r.Get("/download", rt.download)

		r.Group(func(r chi.Router) {
			r.Use(rt.requireSession)
			r.Get("/items", rt.annotatedItems)
			r.Get("/features", rt.features)
			r.Get("/annotations", rt.annotations)
			r.Get("/annotation", rt.annotation)
			r.Post("/annotation", rt.addAnnotation)
		})
	})

	return r
}

// requestLogger emits one structured line per request.
func (rt *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		rt.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
