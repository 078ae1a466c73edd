package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"waterguard/internal/chat"
	"waterguard/internal/logger"
	"waterguard/web"
)

// Chatter answers AquaBot questions.
type Chatter interface {
	Ask(ctx context.Context, question string) (chat.Answer, error)
}

// FormHandler processes the signup and kit-booking forms.
type FormHandler interface {
	Signup(ctx context.Context, body map[string]any) (string, error)
	BookKit(ctx context.Context, body map[string]any) (string, error)
}

type Options struct {
	Addr           string
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Server is the WaterGuard HTTP backend.
type Server struct {
	chat      Chatter
	forms     FormHandler
	log       *zap.Logger
	origins   []string
	pages     map[string]*template.Template
	handler   http.Handler
	server    *http.Server
	startTime time.Time
}

// page path -> template file
var pageRoutes = map[string]string{
	"/{$}":         "index.html",
	"/chatbot":     "chatbot.html",
	"/signup-form": "signup.html",
	"/water_test":  "water_test.html",
	"/book_kit":    "book_kit.html",
}

var pageTitles = map[string]string{
	"index.html":      "Home",
	"chatbot.html":    "AquaBot",
	"signup.html":     "Sign up",
	"water_test.html": "Water test",
	"book_kit.html":   "Book a kit",
}

func New(opts Options, chatter Chatter, forms FormHandler) (*Server, error) {
	s := &Server{
		chat:      chatter,
		forms:     forms,
		log:       logger.OrNop(opts.Logger),
		origins:   opts.AllowedOrigins,
		pages:     make(map[string]*template.Template, len(pageRoutes)),
		startTime: time.Now(),
	}
	for _, file := range pageRoutes {
		tpl, err := template.ParseFS(web.FS, "templates/layout.html", "templates/"+file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
		s.pages[file] = tpl
	}

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /book-kit", s.handleBookKit)
	for pattern, file := range pageRoutes {
		mux.HandleFunc("GET "+pattern, s.handlePage(file))
	}
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	s.handler = s.requestID(s.logRequests(s.cors(mux)))
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler { return s.handler }

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting http server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
