package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ironsheep/overlay-translate-mcp/internal/imaging"
)

// maxBodySize bounds an uploaded screenshot request.
const maxBodySize = 32 << 20

// OverlayRequest is the body of POST /.
type OverlayRequest struct {
	// Image is a base64-encoded PNG screenshot.
	Image string `json:"image"`
}

// OverlayResponse is the reply to POST /. Exactly one field is set.
type OverlayResponse struct {
	Image string `json:"image,omitempty"`
	Error string `json:"error,omitempty"`
}

// Handler returns the HTTP API: POST / takes a screenshot and returns the
// rendered overlay, GET /healthz reports liveness.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{$}", s.handleOverlay)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
	})
	return mux
}

// handleOverlay decodes the body as JSON whatever its content type.
func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req OverlayRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, OverlayResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	data, err := imaging.DecodeBase64(req.Image)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, OverlayResponse{Error: err.Error()})
		return
	}
	if _, _, err := imaging.PNGSize(data); err != nil {
		writeJSON(w, http.StatusBadRequest, OverlayResponse{Error: err.Error()})
		return
	}

	res, err := s.pipeline.Run(r.Context(), data)
	if err != nil {
		s.log.Error("overlay request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, OverlayResponse{Error: err.Error()})
		return
	}
	png, err := res.EncodePNG()
	if err != nil {
		s.log.Error("overlay encode failed", "pass", res.PassID, "error", err)
		writeJSON(w, http.StatusInternalServerError, OverlayResponse{Error: "failed to create image."})
		return
	}

	s.log.Info("overlay served", "pass", res.PassID, "bytes", len(png), "elapsed", time.Since(start).Round(time.Millisecond))
	writeJSON(w, http.StatusOK, OverlayResponse{Image: base64.StdEncoding.EncodeToString(png)})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves Handler on addr until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
