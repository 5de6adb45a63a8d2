package domain

import "errors"

var (
	ErrUnknownBlockType  = errors.New("unknown block type")
	ErrMissingBlockID    = errors.New("block id is required")
	ErrDuplicateBlockID  = errors.New("duplicate block id")
	ErrInvalidFieldValue = errors.New("invalid field value")
	ErrBlockNotFound     = errors.New("block not found")
	ErrNoSession         = errors.New("not logged in")
)
