package entity

import "time"

// Invoice factura de proveedor que respalda una entrada. Number es único.
type Invoice struct {
	ID       string
	Number   string
	Supplier string
	Date     time.Time
}
