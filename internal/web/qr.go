package web

import (
	"net/http"
	"strconv"

	"github.com/erazemk/hranilka/internal/qrcode"
)

// QRImage handles GET /qr?value=&size=.
func (s *Server) QRImage(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if value == "" {
		http.Error(w, "missing value", http.StatusBadRequest)
		return
	}

	size := qrcode.DefaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid size", http.StatusBadRequest)
			return
		}
		size = n
	}

	data, err := qrcode.Render(value, size)
	if err != nil {
		s.Logger.Errorw("failed to render qr", "error", err)
		http.Error(w, "cannot render qr", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		s.Logger.Errorw("failed to write qr response", "error", err)
	}
}
