package domain

// DomainError is a domain-level error with a stable machine-readable code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrInvalidQuantity   = NewDomainError("INVALID_QUANTITY", "quantity must be greater than zero")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "insufficient stock available")
	ErrProductNotFound   = NewDomainError("PRODUCT_NOT_FOUND", "product not found")
	ErrEmptyOrder        = NewDomainError("EMPTY_ORDER", "order must contain at least one item")
	ErrOrderNotFound     = NewDomainError("ORDER_NOT_FOUND", "order not found")
	ErrAlreadyCancelled  = NewDomainError("ALREADY_CANCELLED", "order is already cancelled")
	ErrInvalidPrice      = NewDomainError("INVALID_PRICE", "price cannot be negative")
	ErrInvalidName       = NewDomainError("INVALID_NAME", "name is required")
	ErrInvalidEmail      = NewDomainError("INVALID_EMAIL", "email address is not valid")
)
