package services

import "github.com/shopspring/decimal"

// decimalZero is shared so amount initialization reads uniformly across services.
var decimalZero = decimal.NewFromInt(0)
