package vehicles

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vgestion/vehiculos-backend/internal/domain"
	"github.com/vgestion/vehiculos-backend/internal/httpx"
	"github.com/vgestion/vehiculos-backend/internal/models"
)

// Handler holds vehicle HTTP handlers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func vehicleID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// Create persists a new vehicle.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "cuerpo de la petición no válido")
		return
	}
	vehicle, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vehicle)
}

// List returns all vehicles, optionally filtered by the tipo query param.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.svc.List(r.Context(), r.URL.Query().Get("tipo"))
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	httpx.JSON(w, http.StatusOK, vehicles)
}

// Get returns a single vehicle by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		httpx.DomainError(w, domain.ErrNotFound)
		return
	}
	vehicle, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vehicle)
}

// Update fully replaces an existing vehicle.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		httpx.DomainError(w, domain.ErrNotFound)
		return
	}
	var in models.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "cuerpo de la petición no válido")
		return
	}
	vehicle, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vehicle)
}

// Delete removes a vehicle.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		httpx.DomainError(w, domain.ErrNotFound)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Vehículo eliminado correctamente"})
}

// Stats returns the average odometer reading and total count.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

// UploadImage stores a multipart image for a vehicle.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		httpx.DomainError(w, domain.ErrNotFound)
		return
	}
	file, header, err := r.FormFile("imagen")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "se requiere el archivo 'imagen'")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "no se pudo leer el archivo")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	vehicle, err := h.svc.AttachImage(r.Context(), id, data, contentType)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vehicle)
}

// GetImage streams the stored image for a vehicle.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		httpx.DomainError(w, domain.ErrNotFound)
		return
	}
	data, contentType, err := h.svc.Image(r.Context(), id)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
