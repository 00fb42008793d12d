package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/domain"
)

type adminPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (p adminPayload) contact() (domain.AdministratorContact, string) {
	a := domain.AdministratorContact{
		Name:  strings.TrimSpace(p.Name),
		Email: strings.TrimSpace(p.Email),
		Phone: strings.TrimSpace(p.Phone),
	}
	if !isValidEmail(a.Email) {
		return a, "a valid email is required"
	}
	return a, ""
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := s.Admins.ListAdmins(r.Context())
	if err != nil {
		s.Logger.Error("list_admins_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	if admins == nil {
		admins = []domain.AdministratorContact{}
	}
	writeJSON(w, http.StatusOK, admins)
}

func (s *Server) handleGetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.Admins.GetAdmin(r.Context(), domain.AdminID(id))
	if err != nil {
		s.storeError(w, "get_admin_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var p adminPayload
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	a, problem := p.contact()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}
	if err := s.Admins.CreateAdmin(r.Context(), &a); err != nil {
		s.Logger.Error("create_admin_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not add")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var p adminPayload
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	a, problem := p.contact()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}
	a.ID = domain.AdminID(id)
	if err := s.Admins.UpdateAdmin(r.Context(), &a); err != nil {
		s.storeError(w, "update_admin_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Admins.DeleteAdmin(r.Context(), domain.AdminID(id)); err != nil {
		s.storeError(w, "delete_admin_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
