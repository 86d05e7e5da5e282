package designationerrors

import (
	"go-attendance/internal/shared/apperror"
	"net/http"
)

var (
	ErrDesignationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Designation not found",
		http.StatusNotFound,
	)
	ErrDesignationAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Designation with the same name already exists",
		http.StatusConflict,
	)
	ErrDesignationInUse = apperror.New(
		apperror.CodeConflict,
		"Designation is still assigned to employees",
		http.StatusConflict,
	)
	ErrInvalidDesignationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid designation ID",
		http.StatusBadRequest,
	)
	ErrInvalidLevel = apperror.New(
		apperror.CodeInvalidInput,
		"Level must be at least 1",
		http.StatusBadRequest,
	)
)
