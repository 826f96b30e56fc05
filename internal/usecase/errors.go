package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrSignature             = errors.New("callback signature verification failed")
	ErrTransactionNotFound   = errors.New("payment transaction not found")
	ErrDuplicateConversation = errors.New("payment conversation id already used")
	ErrTransitionConflict    = errors.New("payment transaction already moved to another state")
	ErrCardNotFound          = errors.New("saved card not found")
	ErrNoReusableToken       = errors.New("provider returned no reusable card token")
	ErrOrderNotFound         = errors.New("order not found")
	ErrTransactionNotSettled = errors.New("payment transaction is not completed")
)
