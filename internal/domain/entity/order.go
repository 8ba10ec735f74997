package entity

import "time"

// OrderStatus es el estado del ciclo de vida de una orden de reposición.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// IsValid indica si el valor corresponde a un estado conocido.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// transitions define las transiciones permitidas. completed y canceled son
// terminales; repetir el estado actual es un no-op permitido.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusInProgress, OrderStatusCanceled},
	OrderStatusInProgress: {OrderStatusCompleted, OrderStatusCanceled},
	OrderStatusCompleted:  {},
	OrderStatusCanceled:   {},
}

// CanTransitionTo indica si la transición s -> next está permitida.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order representa una orden de reposición en el servicio de órdenes.
// Se crea siempre en pending; el estado solo cambia por SetStatus y según
// la tabla de transiciones.
type Order struct {
	ID                    string
	ProductID             string
	ProductName           string
	Quantity              int
	SourceLocationID      string
	DestinationLocationID string
	SupplierID            string
	Status                OrderStatus
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
