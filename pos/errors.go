package pos

import (
	"errors"
	"fmt"
)

// Kind classifies the failures returned by session operations.
type Kind int

const (
	KindUnknown Kind = iota
	KindTableUnavailable
	KindNoTableSelected
	KindInvalidQuantity
	KindEmptyOrder
	KindGateway
	KindInvalidPrice
	KindInvalidStatus
	KindUnknownVariant
	KindOrderInProgress
	KindCheckoutInProgress
	KindCheckoutAbandoned
	KindTableUpdateInProgress
)

func (k Kind) String() string {
	switch k {
	case KindTableUnavailable:
		return "TABLE_UNAVAILABLE"
	case KindNoTableSelected:
		return "NO_TABLE_SELECTED"
	case KindInvalidQuantity:
		return "INVALID_QUANTITY"
	case KindEmptyOrder:
		return "EMPTY_ORDER"
	case KindGateway:
		return "GATEWAY_ERROR"
	case KindInvalidPrice:
		return "INVALID_PRICE"
	case KindInvalidStatus:
		return "INVALID_STATUS"
	case KindUnknownVariant:
		return "UNKNOWN_VARIANT"
	case KindOrderInProgress:
		return "ORDER_IN_PROGRESS"
	case KindCheckoutInProgress:
		return "CHECKOUT_IN_PROGRESS"
	case KindCheckoutAbandoned:
		return "CHECKOUT_ABANDONED"
	case KindTableUpdateInProgress:
		return "TABLE_UPDATE_IN_PROGRESS"
	default:
		return "UNKNOWN"
	}
}

// Error is a failure detected locally, before any gateway call.
// Message is short and safe to show to the operator.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrTableUnavailable   = &Error{Kind: KindTableUnavailable, Message: "Table is occupied"}
	ErrNoTableSelected    = &Error{Kind: KindNoTableSelected, Message: "Select a table first"}
	ErrInvalidQuantity    = &Error{Kind: KindInvalidQuantity, Message: "Quantity must be at least 1"}
	ErrEmptyOrder         = &Error{Kind: KindEmptyOrder, Message: "Nothing to check out"}
	ErrInvalidPrice       = &Error{Kind: KindInvalidPrice, Message: "Price cannot be negative"}
	ErrInvalidStatus      = &Error{Kind: KindInvalidStatus, Message: "Unknown table status"}
	ErrUnknownVariant     = &Error{Kind: KindUnknownVariant, Message: "Choose a valid option for this product"}
	ErrOrderInProgress    = &Error{Kind: KindOrderInProgress, Message: "Table still has an open order"}
	ErrCheckoutInProgress = &Error{Kind: KindCheckoutInProgress, Message: "Checkout is still being processed"}
	ErrCheckoutAbandoned  = &Error{Kind: KindCheckoutAbandoned, Message: "Checkout was cancelled"}

	ErrTableUpdateInProgress = &Error{Kind: KindTableUpdateInProgress, Message: "Table status is still being saved"}

	// ErrGateway matches every *GatewayError through errors.Is.
	ErrGateway = &Error{Kind: KindGateway, Message: "Could not reach the server, please try again"}
)

// GatewayError reports that the backend rejected or failed to process a
// table update or an order submission.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return KindGateway
	}
	var posErr *Error
	if errors.As(err, &posErr) {
		return posErr.Kind
	}
	return KindUnknown
}

// UserMessage translates err into the text shown on the POS screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return ErrGateway.Message
	}
	var posErr *Error
	if errors.As(err, &posErr) {
		return posErr.Message
	}
	return "Something went wrong"
}
