package images

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// cacheControl marks image responses publicly cacheable for a day.
const cacheControl = "public, max-age=86400"

// RegisterRoutes mounts the image endpoints on the given router.
func RegisterRoutes(r chi.Router, source Provider, cropper *Cropper, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	r.Get("/api/images/{filename}", serveHandler(source, logger))
	r.Get("/api/images/{filename}/crop", cropHandler(cropper, logger))
}

// serveHandler streams a whole image. A source with a local path serves
// straight off disk; otherwise the fetched buffer is written out. Whole
// images are not cached server-side, only crops are.
func serveHandler(source Provider, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")

		path, err := source.LocalPath(r.Context(), filename)
		switch {
		case err == nil:
			w.Header().Set("Content-Type", ContentTypeFor(filename))
			w.Header().Set("Cache-Control", cacheControl)
			http.ServeFile(w, r, path)
			return
		case errors.Is(err, ErrNotFound):
			logger.Warn("image not found", "op", "serve", "filename", filename)
			writeError(w, http.StatusNotFound, "Image not found")
			return
		case !errors.Is(err, ErrNoLocalPath):
			logger.Error("resolving image", "op", "serve", "filename", filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to serve image")
			return
		}

		buf, err := source.Fetch(r.Context(), filename)
		if errors.Is(err, ErrNotFound) {
			logger.Warn("image not found", "op", "serve", "filename", filename)
			writeError(w, http.StatusNotFound, "Image not found")
			return
		}
		if err != nil {
			logger.Error("fetching image", "op", "serve", "filename", filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to serve image")
			return
		}
		w.Header().Set("Content-Type", ContentTypeFor(filename))
		w.Header().Set("Cache-Control", cacheControl)
		w.Write(buf)
	}
}

// cropHandler serves a cropped region as JPEG. The four coordinates are
// percentages of the source dimensions.
func cropHandler(cropper *Cropper, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		q := r.URL.Query()

		coords := make([]float64, 4)
		for i, name := range []string{"x1", "y1", "x2", "y2"} {
			raw := q.Get(name)
			if raw == "" {
				writeError(w, http.StatusBadRequest, "x1, y1, x2, y2 query params are required")
				return
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "x1, y1, x2, y2 must be numbers between 0 and 100")
				return
			}
			coords[i] = v
		}

		cropped, err := cropper.Crop(r.Context(), filename, coords[0], coords[1], coords[2], coords[3])
		if err != nil {
			if IsValidation(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "Image not found")
				return
			}
			logger.Error("cropping image", "op", "crop", "filename", filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to crop image")
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Cache-Control", cacheControl)
		w.Write(cropped)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
