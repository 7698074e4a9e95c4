package vehicles

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vgestion/vehiculos-backend/internal/domain"
	"github.com/vgestion/vehiculos-backend/internal/models"
)

// --- helpers ---

type fakeVehicleRepo struct {
	seq      int
	vehicles map[int]models.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: map[int]models.Vehicle{}}
}

func (f *fakeVehicleRepo) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	f.seq++
	v.ID = f.seq
	f.vehicles[v.ID] = *v
	return v, nil
}

func (f *fakeVehicleRepo) List(ctx context.Context, tipo string) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for id := 1; id <= f.seq; id++ {
		v, ok := f.vehicles[id]
		if !ok {
			continue
		}
		if tipo != "" && !strings.Contains(strings.ToLower(v.Tipo), strings.ToLower(tipo)) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVehicleRepo) Get(ctx context.Context, id int) (*models.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (f *fakeVehicleRepo) Update(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	if _, ok := f.vehicles[v.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	f.vehicles[v.ID] = *v
	return v, nil
}

func (f *fakeVehicleRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.vehicles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.vehicles, id)
	return nil
}

func (f *fakeVehicleRepo) SetImageURL(ctx context.Context, id int, url string) error {
	v, ok := f.vehicles[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.ImagenURL = &url
	f.vehicles[id] = v
	return nil
}

func (f *fakeVehicleRepo) Stats(ctx context.Context) (int, float64, error) {
	total := 0
	sum := 0.0
	for _, v := range f.vehicles {
		total++
		sum += v.Kilometraje
	}
	if total == 0 {
		return 0, 0, nil
	}
	return total, sum / float64(total), nil
}

type fakeImageStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	f.objects[key] = data
	f.contentTypes[key] = contentType
	return nil
}

func (f *fakeImageStore) Download(ctx context.Context, key string) ([]byte, string, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, "", errors.New("object not found")
	}
	return data, f.contentTypes[key], nil
}

func (f *fakeImageStore) Remove(ctx context.Context, key string) error {
	delete(f.objects, key)
	delete(f.contentTypes, key)
	return nil
}

func testInput() models.VehicleInput {
	return models.VehicleInput{
		Marca:       "Toyota",
		Modelo:      "Corolla",
		Anio:        2020,
		Tipo:        "Sedán",
		Kilometraje: 15000,
	}
}

// --- tests ---

func TestCreateAndGet_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeVehicleRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("Create did not assign an id")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if *got != *created {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, created)
	}
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeVehicleRepo(), nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*models.VehicleInput)
	}{
		{"year too low", func(in *models.VehicleInput) { in.Anio = 1900 }},
		{"year too high", func(in *models.VehicleInput) { in.Anio = 2100 }},
		{"negative odometer", func(in *models.VehicleInput) { in.Kilometraje = -1 }},
		{"missing marca", func(in *models.VehicleInput) { in.Marca = "" }},
	}
	for _, tc := range cases {
		in := testInput()
		tc.mutate(&in)
		if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestUpdate_ReplacesAllFields(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeVehicleRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, models.VehicleInput{
		Marca:       "Honda",
		Modelo:      "CR-V",
		Anio:        2022,
		Tipo:        "SUV",
		Kilometraje: 500,
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Marca != "Honda" || updated.Tipo != "SUV" || updated.Kilometraje != 500 {
		t.Fatalf("Update did not replace fields: %+v", updated)
	}

	if _, err := svc.Update(ctx, 999, testInput()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestDelete_ThenGetNotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeVehicleRepo(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	repo := newFakeVehicleRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	// empty table reports 0.0, not NaN
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.TotalVehiculos != 0 || stats.PromedioKilometraje != 0.0 {
		t.Fatalf("empty stats: got %+v", stats)
	}

	for _, km := range []float64{1000.0, 3000.5} {
		in := testInput()
		in.Kilometraje = km
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	stats, err = svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.TotalVehiculos != 2 {
		t.Fatalf("total: got %d want 2", stats.TotalVehiculos)
	}
	if stats.PromedioKilometraje != 2000.25 {
		t.Fatalf("average: got %v want 2000.25", stats.PromedioKilometraje)
	}
}

func TestList_TipoFilterCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeVehicleRepo(), nil)
	ctx := context.Background()

	for _, tipo := range []string{"SUV", "Sedán", "SUV Compacto"} {
		in := testInput()
		in.Tipo = tipo
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	got, err := svc.List(ctx, "suv")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("filter 'suv': got %d vehicles, want 2", len(got))
	}
	for _, v := range got {
		if !strings.Contains(strings.ToLower(v.Tipo), "suv") {
			t.Fatalf("filter returned %q", v.Tipo)
		}
	}
}

func TestAttachAndFetchImage(t *testing.T) {
	t.Parallel()

	images := newFakeImageStore()
	svc := NewService(newFakeVehicleRepo(), images)
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	vehicle, err := svc.AttachImage(ctx, created.ID, []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("AttachImage error: %v", err)
	}
	if vehicle.ImagenURL == nil {
		t.Fatalf("AttachImage did not set imagen_url")
	}

	data, contentType, err := svc.Image(ctx, created.ID)
	if err != nil {
		t.Fatalf("Image error: %v", err)
	}
	if string(data) != "png-bytes" || contentType != "image/png" {
		t.Fatalf("image mismatch: %q %q", data, contentType)
	}

	// attaching to a missing vehicle fails before any upload
	if _, err := svc.AttachImage(ctx, 999, []byte("x"), "image/png"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// deleting the vehicle removes the stored object
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(images.objects) != 0 {
		t.Fatalf("image object survived vehicle deletion")
	}
}

func TestImage_NoImageAttached(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeVehicleRepo(), newFakeImageStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, testInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, _, err := svc.Image(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for vehicle without image, got %v", err)
	}
}
