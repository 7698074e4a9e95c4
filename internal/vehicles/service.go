package vehicles

import (
	"context"
	"fmt"
	"math"

	"github.com/vgestion/vehiculos-backend/internal/domain"
	"github.com/vgestion/vehiculos-backend/internal/models"
)

// VehicleRepository defines the interface for vehicle persistence. Lookups
// on a missing id return domain.ErrNotFound.
type VehicleRepository interface {
	Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	List(ctx context.Context, tipo string) ([]models.Vehicle, error)
	Get(ctx context.Context, id int) (*models.Vehicle, error)
	Update(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	Delete(ctx context.Context, id int) error
	SetImageURL(ctx context.Context, id int, url string) error
	// Stats returns the record count and the raw odometer average, 0 when
	// the table is empty.
	Stats(ctx context.Context) (total int, avgKilometraje float64, err error)
}

// ImageStore defines the interface for vehicle image storage.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// Service implements the vehicle operations: plain CRUD, the odometer
// aggregate and optional image attachment. images may be nil, in which
// case the image operations are not routed.
type Service struct {
	repo   VehicleRepository
	images ImageStore
}

func NewService(repo VehicleRepository, images ImageStore) *Service {
	return &Service{repo: repo, images: images}
}

// validate enforces the field constraints before any storage mutation.
func validate(in models.VehicleInput) error {
	if in.Marca == "" || in.Modelo == "" || in.Tipo == "" {
		return fmt.Errorf("%w: marca, modelo y tipo son obligatorios", domain.ErrValidation)
	}
	if in.Anio <= 1900 || in.Anio >= 2100 {
		return fmt.Errorf("%w: el año debe estar entre 1901 y 2099", domain.ErrValidation)
	}
	if in.Kilometraje < 0 {
		return fmt.Errorf("%w: el kilometraje no puede ser negativo", domain.ErrValidation)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in models.VehicleInput) (*models.Vehicle, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &models.Vehicle{
		Marca:       in.Marca,
		Modelo:      in.Modelo,
		Anio:        in.Anio,
		Tipo:        in.Tipo,
		Kilometraje: in.Kilometraje,
		ImagenURL:   in.ImagenURL,
	})
}

// List returns all vehicles, optionally filtered by tipo as a
// case-insensitive substring match.
func (s *Service) List(ctx context.Context, tipo string) ([]models.Vehicle, error) {
	return s.repo.List(ctx, tipo)
}

func (s *Service) Get(ctx context.Context, id int) (*models.Vehicle, error) {
	return s.repo.Get(ctx, id)
}

// Update fully replaces every mutable field of an existing vehicle.
func (s *Service) Update(ctx context.Context, id int, in models.VehicleInput) (*models.Vehicle, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, &models.Vehicle{
		ID:          id,
		Marca:       in.Marca,
		Modelo:      in.Modelo,
		Anio:        in.Anio,
		Tipo:        in.Tipo,
		Kilometraje: in.Kilometraje,
		ImagenURL:   in.ImagenURL,
	})
}

// Delete removes the vehicle and, best effort, its stored image.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.images != nil {
		s.images.Remove(ctx, imageKey(id))
	}
	return nil
}

// Stats reports the average odometer reading rounded to 2 decimal places
// alongside the total count. An empty table reports 0.0, never NaN.
func (s *Service) Stats(ctx context.Context) (*models.VehicleStats, error) {
	total, avg, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return &models.VehicleStats{PromedioKilometraje: 0.0, TotalVehiculos: 0}, nil
	}
	return &models.VehicleStats{
		PromedioKilometraje: math.Round(avg*100) / 100,
		TotalVehiculos:      total,
	}, nil
}

// AttachImage stores the image bytes for an existing vehicle and records
// the serving URL on the record.
func (s *Service) AttachImage(ctx context.Context, id int, data []byte, contentType string) (*models.Vehicle, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.images.Upload(ctx, imageKey(id), data, contentType); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("/vehiculos/%d/imagen", id)
	if err := s.repo.SetImageURL(ctx, id, url); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Image returns the stored image bytes and content type for a vehicle.
func (s *Service) Image(ctx context.Context, id int) ([]byte, string, error) {
	vehicle, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if vehicle.ImagenURL == nil {
		return nil, "", domain.ErrNotFound
	}
	return s.images.Download(ctx, imageKey(id))
}

func imageKey(id int) string {
	return fmt.Sprintf("vehiculos/%d", id)
}
