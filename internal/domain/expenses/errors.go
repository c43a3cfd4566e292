package expenses

import "errors"

var ErrExpenseNotFound = errors.New("expense not found")
