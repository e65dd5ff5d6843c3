package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"zapdispatch/internal/database"
	"zapdispatch/internal/errors"
	"zapdispatch/internal/models"
	"zapdispatch/internal/service"
	"zapdispatch/pkg/sendchannel"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router  *mux.Router
	logger  *logrus.Logger
	cfg     *models.Config
	db      *database.Database
	channel sendchannel.Client
	events  *service.EventHub
	server  *http.Server
}

func NewServer(cfg *models.Config, db *database.Database, channel sendchannel.Client, events *service.EventHub, logger *logrus.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		logger:  logger,
		cfg:     cfg,
		db:      db,
		channel: channel,
		events:  events,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)
	s.router.HandleFunc("/ws/events", s.handleEvents()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/messages", s.handleCreateMessage()).Methods(http.MethodPost)
	api.HandleFunc("/messages", s.handleListMessages()).Methods(http.MethodGet)
	api.HandleFunc("/messages/{id:[0-9]+}", s.handleDeleteMessage()).Methods(http.MethodDelete)

	api.HandleFunc("/clients", s.handleCreateClient()).Methods(http.MethodPost)
	api.HandleFunc("/clients", s.handleListClients()).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id:[0-9]+}", s.handleUpdateClient()).Methods(http.MethodPut)
	api.HandleFunc("/clients/{id:[0-9]+}", s.handleDeleteClient()).Methods(http.MethodDelete)

	api.HandleFunc("/tenants", s.handleSaveTenant()).Methods(http.MethodPut)
	api.HandleFunc("/tenants/{id}", s.handleGetTenant()).Methods(http.MethodGet)

	api.HandleFunc("/send", s.handleSend()).Methods(http.MethodPost)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.cfg.Server.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.WithError(err).Warn("Failed to write health response")
		}
	}
}

// tenantID extracts the authenticated tenant from the request. Authentication
// itself is handled upstream; the proxy passes the resolved tenant through
// this header.
func tenantID(r *http.Request) string {
	return r.Header.Get("X-Tenant-ID")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Warn("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{
		"error": errors.GetUserMessage(err),
	})
}
