package dto

// CreateLocationRequest cuerpo para crear una ubicación. Products es la
// lista opcional de productos a asociar (quedan con cantidad cero).
type CreateLocationRequest struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Products []string `json:"products,omitempty"`
}

// UpdateLocationRequest cuerpo para actualizar una ubicación.
type UpdateLocationRequest struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Products []string `json:"products,omitempty"`
}

// LocationResponse representación de una ubicación con sus productos asociados.
type LocationResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Products []string `json:"products"`
}

// LocationListResponse lista paginada de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
}
