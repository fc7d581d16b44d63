package shared

// DomainError represents a domain-level error with a stable code and a
// user-visible message triple (zh/en/th)
type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	MessageZH string `json:"message_zh,omitempty"`
	MessageTH string `json:"message_th,omitempty"`
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

// NewLocalizedError creates a domain error carrying the full message triple
func NewLocalizedError(code, messageEN, messageZH, messageTH string) *DomainError {
	return &DomainError{
		Code:      code,
		Message:   messageEN,
		MessageZH: messageZH,
		MessageTH: messageTH,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrDuplicatePending  = NewDomainError("DUPLICATE_PENDING_RESERVATION", "A pending reservation already exists for this customer and report type")
	ErrSequenceExhausted = NewDomainError("SEQUENCE_ALLOCATION_FAILED", "Report sequence row could not be locked after retries")
	ErrTemplateMismatch  = NewDomainError("TEMPLATE_MISMATCH", "Registry fill position not present in PDF template")
	ErrEmissionIO        = NewDomainError("EMISSION_IO_ERROR", "PDF emission failed")
	ErrInvariantBroken   = NewDomainError("INTERNAL_INVARIANT", "Internal invariant violated")
)
