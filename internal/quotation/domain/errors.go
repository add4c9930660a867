package domain

import "errors"

var (
	ErrNotFound            = errors.New("quotation_not_found")
	ErrInvalidID           = errors.New("invalid_quotation_id")
	ErrInvalidClientName   = errors.New("invalid_client_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidPhone        = errors.New("invalid_phone")
	ErrNoItems             = errors.New("no_items")
	ErrInvalidItemName     = errors.New("invalid_item_name")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidDuration     = errors.New("invalid_duration_days")
	ErrInvalidUnitPrice    = errors.New("invalid_unit_price")
	ErrInvalidAmountInput  = errors.New("invalid_amount_input")
	ErrDuplicateSubmission = errors.New("duplicate_submission")
	ErrQuotationInvoiced   = errors.New("quotation_has_invoice")
)
