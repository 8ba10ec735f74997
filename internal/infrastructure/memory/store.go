// Package memory implementa los puertos de persistencia sobre mapas en
// proceso, como backing store alternativo a PostgreSQL (y el que usan los
// tests). Toda mutación pasa por el lock del Store; el ajuste de inventario
// es por eso un paso atómico por clave.
package memory

import (
	"sync"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
)

// Store es el estado compartido de los repositorios en memoria.
type Store struct {
	mu sync.RWMutex
	// txMu serializa las transacciones del TxRunner entre sí.
	txMu sync.Mutex

	locations map[string]entity.Location
	locSeq    []string // orden de inserción para listados estables
	products  map[string]entity.Product
	prodSeq   []string
	inventory map[string]map[string]int // locationID -> productID -> cantidad
	purchases []entity.Purchase
	orders    map[string]entity.Order
	orderSeq  []string
	outbox    map[string]entity.OutboxEntry
	outboxSeq []string
}

// NewStore construye el store vacío.
func NewStore() *Store {
	return &Store{
		locations: map[string]entity.Location{},
		products:  map[string]entity.Product{},
		inventory: map[string]map[string]int{},
		orders:    map[string]entity.Order{},
		outbox:    map[string]entity.OutboxEntry{},
	}
}
