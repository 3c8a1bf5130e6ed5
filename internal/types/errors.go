package types

import "errors"

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrMissingCompany  = errors.New("missing 'company' key")
	ErrMissingData     = errors.New("missing 'data' key")
	ErrNoTrainingRows  = errors.New("no training rows")
	ErrModelMismatch   = errors.New("model does not match feature vector")
)
