package entity

import "time"

// Location representa una ubicación física (almacén o sucursal) de la red.
// El stock por producto se maneja aparte, en el ledger de inventario;
// un producto está "asociado" a la ubicación cuando tiene fila en el ledger,
// aunque su cantidad sea cero.
type Location struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
