package entity

import "time"

// Purchase es el registro inmutable de una compra: nunca se actualiza ni se
// borra después de creado. LocationID queda fijado en el momento del registro
// para poder listar compras por ubicación.
type Purchase struct {
	ID         string
	LocationID string
	ProductID  string
	Quantity   int
	CreatedAt  time.Time
}
