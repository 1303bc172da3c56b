package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/portotpc/mantemos/internal/app"
	"github.com/portotpc/mantemos/internal/model"
	"github.com/portotpc/mantemos/internal/workflow"
)

type loginReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body: {\"login\":\"...\",\"password\":\"...\"}")
		return
	}

	tech, ok := s.app.Identity.FindByCredentials(req.Login, req.Password)
	if !ok {
		e := workflow.NewInvalidCredentialsError()
		writeError(w, http.StatusUnauthorized, string(e.Code), e.Message)
		return
	}
	writeJSON(w, http.StatusOK, tech)
}

type shiftResp struct {
	InShift bool `json:"inShift"`
}

func (s *Server) handleShiftStatus(w http.ResponseWriter, r *http.Request) {
	tech, ok := s.app.Identity.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "technician not found")
		return
	}
	writeJSON(w, http.StatusOK, shiftResp{InShift: s.app.Issuance.InShift(tech)})
}

type submitOrderReq struct {
	Login    string            `json:"login"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data"`
}

// handleSubmitOrder is the admission-controlled issuance path. Credentials
// are checked per request; the shift window is evaluated inside Submit.
func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
		return
	}

	tech, ok := s.app.Identity.FindByCredentials(req.Login, req.Password)
	if !ok {
		e := workflow.NewInvalidCredentialsError()
		writeError(w, http.StatusUnauthorized, string(e.Code), e.Message)
		return
	}

	order, err := s.app.Issuance.Submit(tech, req.Data)
	if err != nil {
		var we *workflow.Error
		if errors.As(err, &we) && we.Code == workflow.ErrCodeShiftClosed {
			writeError(w, http.StatusForbidden, string(we.Code), we.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Ledger.ListAll())
}

func (s *Server) handleOrdersByTechnician(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Ledger.ListByTechnician(chi.URLParam(r, "id")))
}

// orderDocument is the read accessor for downstream document rendering: one
// materialized order plus the active branding settings.
type orderDocument struct {
	Order    model.ServiceOrder `json:"order"`
	Settings model.AppSettings  `json:"settings"`
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.app.Ledger.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
		return
	}
	writeJSON(w, http.StatusOK, orderDocument{Order: order, Settings: s.app.Settings.Get()})
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Syncer.Status())
}

func (s *Server) handleListTechnicians(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Identity.List())
}

func (s *Server) handleAddTechnician(w http.ResponseWriter, r *http.Request) {
	var t model.Technician
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid technician body")
		return
	}
	writeJSON(w, http.StatusCreated, s.app.Identity.Add(t))
}

func (s *Server) handleRemoveTechnician(w http.ResponseWriter, r *http.Request) {
	// Removal of an absent id is a silent no-op, not an error.
	s.app.Identity.Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Settings.Fields())
}

func (s *Server) handleAddField(w http.ResponseWriter, r *http.Request) {
	var f model.FieldDefinition
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid field body")
		return
	}
	writeJSON(w, http.StatusCreated, s.app.Settings.AddField(f))
}

func (s *Server) handleRemoveField(w http.ResponseWriter, r *http.Request) {
	s.app.Settings.RemoveField(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Settings.Get())
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.AppSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid settings body")
		return
	}
	s.app.Settings.Replace(settings)
	writeJSON(w, http.StatusOK, s.app.Settings.Get())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.app.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		"attachment; filename=\""+app.ExportFileName(time.Now())+"\"")
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "could not read body")
		return
	}

	if err := s.app.Import(data); err != nil {
		var we *workflow.Error
		if errors.As(err, &we) && we.Code == workflow.ErrCodeImportParse {
			writeError(w, http.StatusBadRequest, string(we.Code), we.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	p, err := s.app.Syncer.Pull(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "SYNC_FAILED", err.Error())
		return
	}
	s.app.Apply(p)
	writeJSON(w, http.StatusOK, s.app.Syncer.Status())
}
