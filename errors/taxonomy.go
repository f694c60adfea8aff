package errors

// Kind groups registered errors into the families a client acts upon. A
// client does not need to know every code, only whether the failure was
// caused by bad input, missing permissions, arithmetic limits or the
// current ledger state.
type Kind string

const (
	KindNone              Kind = ""
	KindInternal          Kind = "InternalError"
	KindAuthorization     Kind = "AuthorizationError"
	KindState             Kind = "StateError"
	KindValidation        Kind = "ValidationError"
	KindArithmetic        Kind = "ArithmeticError"
	KindInsufficientFunds Kind = "InsufficientFundsError"
	KindInvalidReference  Kind = "InvalidReferenceError"
	KindNotFound          Kind = "NotFoundError"
)

var kinds = map[*Error]Kind{
	ErrUnauthorized:      KindAuthorization,
	ErrState:             KindState,
	ErrDuplicate:         KindState,
	ErrInput:             KindValidation,
	ErrMsg:               KindValidation,
	ErrModel:             KindValidation,
	ErrEmpty:             KindValidation,
	ErrAmount:            KindValidation,
	ErrType:              KindValidation,
	ErrMetadata:          KindValidation,
	ErrOverflow:          KindArithmetic,
	ErrInsufficientFunds: KindInsufficientFunds,
	ErrReference:         KindInvalidReference,
	ErrNotFound:          KindNotFound,
}

// KindOf returns the family that given error belongs to. Errors that were
// not created from any registered root error are internal.
func KindOf(err error) Kind {
	if isNilErr(err) {
		return KindNone
	}
	kind := KindInternal
	walk(err, func(cause error) bool {
		e, ok := cause.(*Error)
		if ok {
			if k, known := kinds[e]; known {
				kind = k
			}
		}
		return ok
	})
	return kind
}
