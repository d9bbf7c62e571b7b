package shared

// DomainError represents a client-side rule violation surfaced to the user
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrDuplicateItem     = NewDomainError("DUPLICATE_ITEM", "This item is already in the order")
	ErrNoItemSelected    = NewDomainError("NO_ITEM_SELECTED", "Select an item from the catalog first")
	ErrPriceRequired     = NewDomainError("PRICE_REQUIRED", "Price is required")
	ErrLocationLocked    = NewDomainError("LOCATION_LOCKED", "Location cannot change after items were added to the order")
	ErrClientRequired    = NewDomainError("CLIENT_REQUIRED", "Choose a client or fill in the new client form")
	ErrLocationRequired  = NewDomainError("LOCATION_REQUIRED", "Choose the order location")
	ErrEmployeeRequired  = NewDomainError("EMPLOYEE_REQUIRED", "Choose the employee who recorded the order")
	ErrReceiveDateNeeded = NewDomainError("RECEIVE_DATE_REQUIRED", "Choose the receive date")
	ErrReturnDateNeeded  = NewDomainError("RETURN_DATE_REQUIRED", "Choose the return date")
	ErrNoItems           = NewDomainError("NO_ITEMS", "Add at least one item to the order")
	ErrOccasionNeeded    = NewDomainError("OCCASION_DATE_REQUIRED", "An occasion date is required for rented items")
)
