package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid account number or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAccountNumber = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_NUMBER", "Account number must have exactly 5 characters"}
	ErrInvalidPassword      = &AppError{http.StatusBadRequest, "INVALID_PASSWORD", "Password must have exactly 4 characters"}
	ErrInvalidAccountType   = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_TYPE", "Account type must be NORMAL or VIP"}
	ErrAccountExists        = &AppError{http.StatusConflict, "ACCOUNT_ALREADY_EXISTS", "An account with this number already exists"}
	ErrInvalidAmount        = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrSelfTransfer         = &AppError{http.StatusBadRequest, "SELF_TRANSFER_NOT_ALLOWED", "Cannot transfer to the same account"}
	ErrRecipientNotFound    = &AppError{http.StatusBadRequest, "RECIPIENT_NOT_FOUND", "Destination account not found"}
	ErrLimitExceeded        = &AppError{http.StatusBadRequest, "TRANSFER_LIMIT_EXCEEDED", "Transfer limit exceeded"}
	ErrInvalidArgument      = &AppError{http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid argument"}

	ErrInsufficientFunds = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}

	ErrNoSession    = &AppError{http.StatusConflict, "NO_SESSION", "No account is logged in"}
	ErrNotVIP       = &AppError{http.StatusConflict, "VIP_ONLY", "Operation available to VIP accounts only"}
	ErrInvalidState = &AppError{http.StatusConflict, "INVALID_STATE", "Operation not allowed in the current state"}
	ErrStoreFailure = &AppError{http.StatusInternalServerError, "PERSISTENCE_FAILURE", "Could not persist the change"}
)
