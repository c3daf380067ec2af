package messaging

import (
	"errors"
	"fmt"
)

// Error kinds for messaging behaviors. Specific failures below wrap one of
// these so callers can classify with errors.Is without matching strings.
var (
	ErrInvalid    = errors.New("messaging: invalid input")
	ErrNotAllowed = errors.New("messaging: not allowed")
	ErrNotFound   = errors.New("messaging: not found")

	// ErrConflict marks a lost uniqueness-constraint race (identity or
	// conversation creation). It is absorbed by the use-case retry loop and
	// never reaches the facade.
	ErrConflict = errors.New("messaging: creation conflict")
)

var (
	ErrEmptyIdentity       = fmt.Errorf("%w: external identity is empty", ErrInvalid)
	ErrEmptyContent        = fmt.Errorf("%w: message content is empty", ErrInvalid)
	ErrSelfConversation    = fmt.Errorf("%w: a conversation needs two distinct participants", ErrInvalid)
	ErrNotParticipant      = fmt.Errorf("%w: sender is not a participant in the conversation", ErrNotAllowed)
	ErrSenderReadsOwn      = fmt.Errorf("%w: sender cannot mark their own message as read", ErrNotAllowed)
	ErrConversationMissing = fmt.Errorf("%w: conversation does not exist", ErrNotFound)
	ErrMessageMissing      = fmt.Errorf("%w: message does not exist", ErrNotFound)
)
