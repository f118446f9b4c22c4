package models

import "errors"

// ErrNegativeBalance guards the store against persisting a balance below zero.
var ErrNegativeBalance = errors.New("account balance cannot be negative")

// ErrBalanceOutOfRange guards the store against a balance the column cannot hold.
var ErrBalanceOutOfRange = errors.New("account balance exceeds the storable range")
