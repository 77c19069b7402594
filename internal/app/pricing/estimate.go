// Package pricing считает ориентировочную стоимость уборки.
// Оценка носит справочный характер: итоговую цену всегда задаёт менеджер.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"cleaning-backend/internal/app/ds"

	"github.com/shopspring/decimal"
)

const outdoorSurcharge = 40

var (
	ErrUnknownServiceType = errors.New("unknown service type")
	ErrInvalidRooms       = errors.New("number of rooms must not be negative")
	ErrAmountPrecision    = errors.New("must have at most 2 decimal places")
	ErrAmountTooLarge     = errors.New("must not exceed 99999999.99")
)

// суммы хранятся в decimal(10,2)
var maxAmount = decimal.RequireFromString("99999999.99")

// Базовая цена за комнату
var basePricePerRoom = map[string]decimal.Decimal{
	ds.ServiceBasic:     decimal.NewFromInt(50),
	ds.ServiceDeepClean: decimal.NewFromInt(70),
	ds.ServiceMoveOut:   decimal.NewFromInt(60),
}

// ServiceTypes возвращает поддерживаемые типы услуг в порядке отображения
func ServiceTypes() []string {
	return []string{ds.ServiceBasic, ds.ServiceDeepClean, ds.ServiceMoveOut}
}

func IsServiceType(serviceType string) bool {
	_, ok := basePricePerRoom[serviceType]
	return ok
}

// Estimate = базовая цена * комнаты + 40 за уборку снаружи
func Estimate(serviceType string, numRooms int, addOutdoor bool) (float64, error) {
	base, ok := basePricePerRoom[serviceType]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownServiceType, serviceType)
	}
	if numRooms < 0 {
		return 0, ErrInvalidRooms
	}

	total := base.Mul(decimal.NewFromInt(int64(numRooms)))
	if addOutdoor {
		total = total.Add(decimal.NewFromInt(outdoorSurcharge))
	}

	value, _ := total.Float64()
	return value, nil
}

// FormatAmount печатает сумму без лишних нулей: 250, 249.5 -> 249.50
func FormatAmount(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsInteger() {
		return d.String()
	}
	return d.StringFixed(2)
}

// SameAmount сравнивает суммы с точностью до цента
func SameAmount(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}

// ValidateAmount проверяет, что сумма помещается в decimal(10,2) без округления
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrAmountTooLarge
	}
	d := decimal.NewFromFloat(amount)
	if !d.Equal(d.Round(2)) {
		return ErrAmountPrecision
	}
	if d.Abs().GreaterThan(maxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}
