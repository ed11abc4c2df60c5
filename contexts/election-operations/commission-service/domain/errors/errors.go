package errors

import "errors"

var (
	// ErrUnauthorized rejects roster mutations by anyone but the authority.
	ErrUnauthorized = errors.New("caller is not the election authority")

	// ErrInvalidPrincipal rejects empty or protected principals.
	ErrInvalidPrincipal = errors.New("principal is invalid for this operation")

	// ErrRegistrarAlreadyGranted rejects duplicate grants, including grants
	// to the authority, which holds registrar rights implicitly.
	ErrRegistrarAlreadyGranted = errors.New("principal already holds registrar rights")

	// ErrRegistrarNotGranted rejects revocation of a grant that does not exist.
	ErrRegistrarNotGranted = errors.New("principal holds no registrar grant")
)
