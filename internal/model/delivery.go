package model

import "time"

// DeliveryStatus is the outcome of a single send attempt
type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// Delivery represents one journaled send attempt
type Delivery struct {
	ID        string         `json:"id"`
	BatchID   string         `json:"batchId"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Sequence  int64          `json:"sequence"`
	Subject   string         `json:"subject"`
	Status    DeliveryStatus `json:"status"`
	Error     *string        `json:"error,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Failed reports whether the attempt was rejected by the transport
func (d *Delivery) Failed() bool {
	return d.Status == DeliveryStatusFailed
}
