package main

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"zapdispatch/internal/errors"
	"zapdispatch/internal/models"
	"zapdispatch/pkg/sendchannel"

	"github.com/gorilla/mux"
)

type createMessageRequest struct {
	Target      string    `json:"target"`
	Message     string    `json:"message"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	TriggerAt   time.Time `json:"triggerAt"`
	RepeatDaily bool      `json:"repeatDaily"`
}

func (s *Server) handleCreateMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := tenantID(r)
		if owner == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("tenant", "missing tenant header"))
			return
		}

		var req createMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("body", "invalid JSON"))
			return
		}
		if req.Target == "" || req.Message == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("message", "target and message are required"))
			return
		}
		if req.TriggerAt.IsZero() {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("triggerAt", "trigger time is required"))
			return
		}

		msg := &models.ScheduledMessage{
			OwnerID:     owner,
			Target:      req.Target,
			Message:     req.Message,
			ImageURL:    req.ImageURL,
			TriggerAt:   req.TriggerAt,
			RepeatDaily: req.RepeatDaily,
			Status:      models.ActionStatusPending,
		}

		id, err := s.db.CreateScheduledMessage(r.Context(), msg)
		if err != nil {
			s.logger.WithError(err).Error("Failed to create scheduled message")
			s.writeError(w, http.StatusInternalServerError, errors.NewDatabaseError("create message", err))
			return
		}

		msg.ID = id
		s.writeJSON(w, http.StatusCreated, msg)
	}
}

func (s *Server) handleListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := tenantID(r)
		if owner == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("tenant", "missing tenant header"))
			return
		}

		msgs, err := s.db.ListScheduledMessages(r.Context(), owner)
		if err != nil {
			s.logger.WithError(err).Error("Failed to list scheduled messages")
			s.writeError(w, http.StatusInternalServerError, errors.NewDatabaseError("list messages", err))
			return
		}

		if msgs == nil {
			msgs = []models.ScheduledMessage{}
		}
		s.writeJSON(w, http.StatusOK, msgs)
	}
}

func (s *Server) handleDeleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := tenantID(r)
		if owner == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("tenant", "missing tenant header"))
			return
		}

		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err := s.db.DeleteScheduledMessage(r.Context(), owner, id); err != nil {
			s.writeError(w, http.StatusNotFound, errors.NewNotFoundError("message", mux.Vars(r)["id"]))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type clientRequest struct {
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Subscription string    `json:"subscription"`
	Amount       string    `json:"amount"`
	DueDate      time.Time `json:"dueDate"`
	Status       string    `json:"status"`
}

func (s *Server) handleCreateClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := tenantID(r)
		if owner == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("tenant", "missing tenant header"))
			return
		}

		var req clientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("body", "invalid JSON"))
			return
		}
		if req.Name == "" || req.Phone == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("client", "name and phone are required"))
			return
		}

		client := &models.Client{
			OwnerID:      owner,
			Name:         req.Name,
			Phone:        req.Phone,
			Email:        req.Email,
			Subscription: req.Subscription,
			Amount:       req.Amount,
			DueDate:      req.DueDate,
			Status:       models.ClientStatus(req.Status),
		}
		if client.Status == "" {
			client.Status = models.ClientStatusActive
		}

		id, err := s.db.CreateClient(r.Context(), client)
		if err != nil {
			s.logger.WithError(err).Error("Failed to create client")
			s.writeError(w, http.StatusInternalServerError, errors.NewDatabaseError("create client", err))
			return
		}

		client.ID = id
		s.writeJSON(w, http.StatusCreated, client)
	}
}

func (s *Server) handleListClients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := tenantID(r)
		if owner == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("tenant", "missing tenant header"))
			return
		}

		clients, err := s.db.ListClients(r.Context(), owner)
		if err != nil {
			s.logger.WithError(err).Error("Failed to list clients")
			s.writeError(w, http.StatusInternalServerError, errors.NewDatabaseError("list clients", err))
			return
		}

		if clients == nil {
			clients = []models.Client{}
		}
		s.writeJSON(w, http.StatusOK, clients)
	}
}

func (s *Server) handleUpdateClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := tenantID(r)
		if owner == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("tenant", "missing tenant header"))
			return
		}

		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

		var req clientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("body", "invalid JSON"))
			return
		}

		client := &models.Client{
			ID:           id,
			OwnerID:      owner,
			Name:         req.Name,
			Phone:        req.Phone,
			Email:        req.Email,
			Subscription: req.Subscription,
			Amount:       req.Amount,
			DueDate:      req.DueDate,
			Status:       models.ClientStatus(req.Status),
		}

		if err := s.db.UpdateClient(r.Context(), client); err != nil {
			s.writeError(w, http.StatusNotFound, errors.NewNotFoundError("client", mux.Vars(r)["id"]))
			return
		}

		s.writeJSON(w, http.StatusOK, client)
	}
}

func (s *Server) handleDeleteClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := tenantID(r)
		if owner == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("tenant", "missing tenant header"))
			return
		}

		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err := s.db.DeleteClient(r.Context(), owner, id); err != nil {
			s.writeError(w, http.StatusNotFound, errors.NewNotFoundError("client", mux.Vars(r)["id"]))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleSaveTenant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tenant models.Tenant
		if err := json.NewDecoder(r.Body).Decode(&tenant); err != nil {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("body", "invalid JSON"))
			return
		}
		if tenant.ID == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("id", "tenant id is required"))
			return
		}

		if err := s.db.SaveTenant(r.Context(), &tenant); err != nil {
			s.logger.WithError(err).Error("Failed to save tenant")
			s.writeError(w, http.StatusInternalServerError, errors.NewDatabaseError("save tenant", err))
			return
		}

		s.writeJSON(w, http.StatusOK, tenant)
	}
}

func (s *Server) handleGetTenant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		tenant, err := s.db.GetTenant(r.Context(), id)
		if err != nil {
			s.logger.WithError(err).Error("Failed to get tenant")
			s.writeError(w, http.StatusInternalServerError, errors.NewDatabaseError("get tenant", err))
			return
		}
		if tenant == nil {
			s.writeError(w, http.StatusNotFound, errors.NewNotFoundError("tenant", id))
			return
		}

		s.writeJSON(w, http.StatusOK, tenant)
	}
}

type sendRequest struct {
	Target   string `json:"target"`
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// handleSend is the immediate-send passthrough: it forwards one message to
// the send channel with the tenant's token, without touching the action store.
func (s *Server) handleSend() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := tenantID(r)
		if owner == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("tenant", "missing tenant header"))
			return
		}

		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("body", "invalid JSON"))
			return
		}
		if req.Target == "" || req.Message == "" {
			s.writeError(w, http.StatusBadRequest, errors.NewValidationError("send", "target and message are required"))
			return
		}

		tenant, err := s.db.GetTenant(r.Context(), owner)
		if err != nil || tenant == nil {
			s.writeError(w, http.StatusNotFound, errors.NewNotFoundError("tenant", owner))
			return
		}

		err = s.channel.Send(r.Context(), sendchannel.SendRequest{
			Message:  req.Message,
			Target:   req.Target,
			Token:    tenant.Token,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			s.logger.WithError(err).Warn("Passthrough send failed")
			var statusErr *sendchannel.StatusError
			if stderrors.As(err, &statusErr) {
				err = errors.NewSendChannelError(statusErr.StatusCode, statusErr.Body, err)
			}
			s.writeError(w, http.StatusBadGateway, err)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
	}
}
