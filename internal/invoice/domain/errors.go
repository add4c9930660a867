package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound = errors.New("invoice_not_found")
	ErrInvoiceExists   = errors.New("invoice_already_exists")
)
