package dbbadger

import "errors"

var (
	// ErrRegistrationNotFound ...
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrRegistrationAlreadyExists ...
	ErrRegistrationAlreadyExists = errors.New("registration already exists")
	// ErrDepositNotFound ...
	ErrDepositNotFound = errors.New("deposit not found")
	// ErrDepositAlreadyExists ...
	ErrDepositAlreadyExists = errors.New("deposit already exists")
)
