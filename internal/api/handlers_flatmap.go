package api

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dbrnz/flatmap-server/internal/flatmap"
)

// listMaps returns the catalog of servable flatmaps.
func (rt *Router) listMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := rt.catalog.Maps()
	if err != nil {
		rt.log.Error().Err(err).Msg("listing flatmaps")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, maps)
}

// mapIndex serves a map's index.json, except for clients that do not ask
// for JSON: those get the map's source SVG when one was published with it.
func (rt *Router) mapIndex(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	if !strings.Contains(r.Header.Get("Accept"), "json") {
		if path, err := rt.catalog.FilePath(mapID, mapID+".svg"); err == nil {
			if _, err := os.Stat(path); err == nil {
				w.Header().Set("Content-Type", "image/svg+xml")
				http.ServeFile(w, r, path)
				return
			}
		}
	}
	rt.serveMapFile(w, r, "index.json")
}

// mapFile serves a fixed sidecar JSON file from the map directory.
func (rt *Router) mapFile(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rt.serveMapFile(w, r, name)
	}
}

func (rt *Router) serveMapFile(w http.ResponseWriter, r *http.Request, name string) {
	path, err := rt.catalog.FilePath(chi.URLParam(r, "mapID"), name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	serveJSONFile(w, r, path)
}

// mapRDFAnnotations serves the map's authored RDF annotations, a build
// artifact distinct from user annotations.
func (rt *Router) mapRDFAnnotations(w http.ResponseWriter, r *http.Request) {
	path, err := rt.catalog.FilePath(chi.URLParam(r, "mapID"), "annotations.ttl")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "Missing RDF annotations", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/turtle")
	http.ServeFile(w, r, path)
}

// mapMetadata serves a JSON value from the tile database's metadata table.
func (rt *Router) mapMetadata(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reader, err := rt.catalog.OpenMap(chi.URLParam(r, "mapID"), "")
		if err != nil {
			http.Error(w, "Cannot read tile database", http.StatusNotFound)
			return
		}
		defer reader.Close()

		value, err := reader.MetadataJSON(name)
		if err != nil {
			http.Error(w, "Cannot read tile database", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, value)
	}
}

// mapImage serves a background image from the map's images directory.
func (rt *Router) mapImage(w http.ResponseWriter, r *http.Request) {
	path, err := rt.catalog.FilePath(chi.URLParam(r, "mapID"), "images", chi.URLParam(r, "image"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "Missing image", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}

// vectorTile serves one vector tile. A tile absent from an otherwise valid
// tile set is an empty 204, not an error: blank regions are normal.
func (rt *Router) vectorTile(w http.ResponseWriter, r *http.Request) {
	z, x, y, ok := tileCoords(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	reader, err := rt.catalog.OpenMap(chi.URLParam(r, "mapID"), "")
	if err != nil {
		http.Error(w, "Cannot read tile database", http.StatusNotFound)
		return
	}
	defer reader.Close()

	data, err := reader.VectorTile(z, x, y)
	if errors.Is(err, flatmap.ErrTileNotFound) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		http.Error(w, "Cannot read tile database", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

// imageTile serves one raster tile from a layer's tile set, substituting a
// transparent tile where none exists.
func (rt *Router) imageTile(w http.ResponseWriter, r *http.Request) {
	z, x, y, ok := tileCoords(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	reader, err := rt.catalog.OpenMap(chi.URLParam(r, "mapID"), chi.URLParam(r, "layer"))
	if err != nil {
		http.Error(w, "Cannot read tile database", http.StatusNotFound)
		return
	}
	defer reader.Close()

	data, err := reader.Tile(z, x, y)
	if err != nil {
		data = flatmap.BlankTile()
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}
