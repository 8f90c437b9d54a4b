package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/NazarChaban/RestAPI-app/internal/api/middleware"
	"github.com/NazarChaban/RestAPI-app/internal/domain"
	"github.com/NazarChaban/RestAPI-app/internal/repository"
	"github.com/NazarChaban/RestAPI-app/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// birthDateLayout is the wire format for birth dates, e.g. "18.04.1990".
const birthDateLayout = "02.01.2006"

type ContactHandler struct {
	contactService *service.ContactService
	log            *slog.Logger
}

func NewContactHandler(contactService *service.ContactService, log *slog.Logger) *ContactHandler {
	return &ContactHandler{contactService: contactService, log: log}
}

type ContactRequest struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Phone     string `json:"phoneNumber"`
	BirthDate string `json:"birthDate"`
	Note      string `json:"additionalInfo"`
}

type ContactPatchRequest struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
	Phone   *string `json:"phoneNumber"`
	Note    *string `json:"additionalInfo"`
}

func (req ContactRequest) toInput() (service.ContactInput, error) {
	if req.Name == "" || req.Surname == "" || req.Email == "" || req.Phone == "" {
		return service.ContactInput{}, errors.New("name, surname, email and phoneNumber are required")
	}

	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		return service.ContactInput{}, errors.New("invalid date format, use dd.mm.yyyy")
	}

	return service.ContactInput{
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: birthDate,
		Note:      req.Note,
	}, nil
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.contactService.Create(r.Context(), user.ID, input)
	if err != nil {
		h.log.Error("contact create failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	// A non-positive limit would read as "no paging" downstream, so it is
	// clamped to the default along with oversized values.
	limit := queryInt(r, "limit", 100)
	if limit < 1 || limit > 100 {
		limit = 100
	}
	offset := queryInt(r, "skip", 0)

	contacts, err := h.contactService.List(r.Context(), user.ID, limit, offset)
	if err != nil {
		h.log.Error("contact list failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	filter := repository.ContactSearch{
		Name:    r.URL.Query().Get("name"),
		Surname: r.URL.Query().Get("surname"),
		Email:   r.URL.Query().Get("email"),
	}

	contacts, err := h.contactService.Search(r.Context(), user.ID, filter)
	if err != nil {
		if errors.Is(err, service.ErrNoSearchFilter) {
			writeError(w, http.StatusBadRequest, "at least one query parameter must be provided")
			return
		}
		h.log.Error("contact search failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) Birthdays(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	contacts, err := h.contactService.UpcomingBirthdays(r.Context(), user.ID, time.Now())
	if err != nil {
		h.log.Error("birthdays query failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	contact, err := h.contactService.Get(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.log.Error("contact get failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact, err := h.contactService.Update(r.Context(), user.ID, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.log.Error("contact update failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	var req ContactPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := h.contactService.UpdateFields(r.Context(), user.ID, id, service.ContactPatch{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
		Phone:   req.Phone,
		Note:    req.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.log.Error("contact patch failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	if err := h.contactService.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			writeError(w, http.StatusNotFound, "contact not found")
			return
		}
		h.log.Error("contact delete failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return fallback
	}
	return val
}
