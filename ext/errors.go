package ext

import "errors"

// Errors returned by declaration and dispatch.
var (
	ErrNameReserved                 = errors.New("ext: operation name is reserved")
	ErrInvalidName                  = errors.New("ext: invalid operation or parameter name")
	ErrAlreadyDeclared              = errors.New("ext: operation already declared")
	ErrUnknownOperation             = errors.New("ext: unknown operation")
	ErrArity                        = errors.New("ext: wrong number of arguments")
	ErrUpgradeMissingImplementation = errors.New("ext: upgraded operation has no implementation for its new shape")
	ErrChainExhausted               = errors.New("ext: operation has no more layers")
	ErrShapeMismatch                = errors.New("ext: cannot translate arguments between operation shapes")
	ErrNotCallable                  = errors.New("ext: object is not callable")
	ErrNilFactory                   = errors.New("ext: nil layer factory")
	ErrMissingRequirement           = errors.New("ext: trait requirement not declared")
)

// ErrNoMoreLayers is an alias of ErrChainExhausted.
var ErrNoMoreLayers = ErrChainExhausted
