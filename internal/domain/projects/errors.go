package projects

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrScopeNotFound    = errors.New("scope not found")
	ErrSubScopeNotFound = errors.New("sub-scope not found")
	ErrWorkItemNotFound = errors.New("work item not found")
	ErrQuantityNotFound = errors.New("work item quantity not found")

	ErrNegativeProgress         = errors.New("completed quantity must not be negative")
	ErrCompletedExceedsQuantity = errors.New("completed quantity exceeds planned quantity")
)
