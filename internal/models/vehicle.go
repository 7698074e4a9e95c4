package models

// Vehicle represents a row in the PostgreSQL vehicles table. JSON field
// names match the public API contract, including the accented "año" key.
// There is deliberately no owner reference: the fleet is shared and any
// authenticated user may read or modify any record.
type Vehicle struct {
	ID          int     `json:"id"`
	Marca       string  `json:"marca"`
	Modelo      string  `json:"modelo"`
	Anio        int     `json:"año"`
	Tipo        string  `json:"tipo"`
	Kilometraje float64 `json:"kilometraje"`
	ImagenURL   *string `json:"imagen_url"`
}

// VehicleInput is the JSON body for creating or fully replacing a vehicle.
type VehicleInput struct {
	Marca       string  `json:"marca"`
	Modelo      string  `json:"modelo"`
	Anio        int     `json:"año"`
	Tipo        string  `json:"tipo"`
	Kilometraje float64 `json:"kilometraje"`
	ImagenURL   *string `json:"imagen_url"`
}

// VehicleStats is the body returned by GET /vehiculos/promedio-km.
type VehicleStats struct {
	PromedioKilometraje float64 `json:"promedio_kilometraje"`
	TotalVehiculos      int     `json:"total_vehiculos"`
}
