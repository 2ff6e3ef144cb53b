package domain

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrCertificateNotFound = errors.New("certificate not found")
)
