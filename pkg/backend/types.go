package backend

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog entry as the venue backend serves it.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion,omitempty"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Category    string          `json:"categoria"`
	Active      bool            `json:"activo"`
}

// User is the authenticated backend user returned by login.
type User struct {
	ID    int64  `json:"id"`
	Code  string `json:"codigo"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  string `json:"rol"`
}

// SaleLine is one line item inside a sale submission.
type SaleLine struct {
	ProductID int64   `json:"productoId"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precioUnitario"`
	Subtotal  float64 `json:"subtotal"`
	Notes     string  `json:"notas"`
}

// SalePayload is the write-once body POSTed to /ventas.
type SalePayload struct {
	UserID         int64      `json:"usuarioId"`
	Subtotal       float64    `json:"subtotal"`
	Tax            float64    `json:"impuestos"`
	Discount       float64    `json:"descuento"`
	Total          float64    `json:"total"`
	TableNumber    string     `json:"numeroMesa"`
	WhatsAppNumber string     `json:"numeroWhatsapp,omitempty"`
	CustomerName   string     `json:"nombreCliente,omitempty"`
	Observations   string     `json:"observaciones,omitempty"`
	Lines          []SaleLine `json:"detalles"`
}

// Sale is a persisted sale as listed by GET /ventas.
type Sale struct {
	ID          int64           `json:"id"`
	TableNumber string          `json:"numeroMesa"`
	Seller      string          `json:"vendedor"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"impuestos"`
	Total       decimal.Decimal `json:"total"`
	SoldAt      time.Time       `json:"fechaVenta"`
	WhatsApp    string          `json:"numeroWhatsapp,omitempty"`
}

// SaleDetailLine is one recorded line of a persisted sale.
type SaleDetailLine struct {
	ProductID   int64           `json:"productoId"`
	ProductName string          `json:"productoNombre"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precioUnitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Notes       string          `json:"notas"`
}

// SaleDetail bundles a sale with its line items.
type SaleDetail struct {
	Sale  Sale             `json:"venta"`
	Lines []SaleDetailLine `json:"detalles"`
}
