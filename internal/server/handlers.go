package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"waterguard/internal/apperr"
)

const (
	maxBodyBytes   = 1 << 20
	msgInvalidBody = "❌ Invalid request body."
)

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type pageData struct {
	Title string
	Year  int
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.log.Debug("bad chat body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, chatResponse{Reply: msgInvalidBody})
		return
	}
	ans, err := s.chat.Ask(r.Context(), req.Prompt)
	if err != nil {
		writeJSON(w, apperr.HTTPStatus(err), chatResponse{Reply: apperr.MessageOf(err)})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: ans.HTML})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	s.handleForm(w, r, s.forms.Signup)
}

func (s *Server) handleBookKit(w http.ResponseWriter, r *http.Request) {
	s.handleForm(w, r, s.forms.BookKit)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request, process func(context.Context, map[string]any) (string, error)) {
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		s.log.Debug("bad form body", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
		return
	}
	if body == nil {
		body = map[string]any{}
	}
	msg, err := process(r.Context(), body)
	if err != nil {
		writeJSON(w, apperr.HTTPStatus(err), messageResponse{Message: apperr.MessageOf(err)})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (s *Server) handlePage(file string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpl := s.pages[file]
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{Title: pageTitles[file], Year: time.Now().Year()}
		if err := tpl.ExecuteTemplate(w, file, data); err != nil {
			s.log.Error("failed to render page", zap.String("page", file), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

// decodeJSON reads exactly one JSON value from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	// keeps long phone numbers exact in map bodies
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
