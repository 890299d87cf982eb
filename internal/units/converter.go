package units

import (
	"context"
	"fmt"

	"github.com/valpere/numfix/internal/lang"
)

// Converter binds the registry to an exchange-rate provider for currency
// conversions. rates may be nil when currencies are never converted.
type Converter struct {
	*Registry
	rates RateProvider
}

func NewConverter(r *Registry, rates RateProvider) *Converter {
	return &Converter{Registry: r, rates: rates}
}

// ToBaseInAnotherSystem expresses n of unit u in the base category of target,
// converting between systems when the families differ. It fails with
// ErrNoConversion when u's family cannot be converted and with ErrIncompatible
// when the conversion lands outside target's family.
func (c *Converter) ToBaseInAnotherSystem(ctx context.Context, u *Unit, n float64, target *Category) (float64, error) {
	base := c.BaseOf(u.Category)
	targetBase := c.BaseOf(target)
	value := c.ToBaseInCategory(u, n)

	if base == targetBase {
		return value, nil
	}
	if base.Conversion == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoConversion, base.ID)
	}
	if len(target.Systems) == 0 {
		return 0, fmt.Errorf("%w: %s to %s", ErrIncompatible, base.ID, target.ID)
	}

	converted, id, err := base.Conversion(ctx, c.rates, value, base.ID, Systems{target.Systems[0]})
	if err != nil {
		return 0, err
	}
	if id != targetBase.ID {
		return 0, fmt.Errorf("%w: %s to %s", ErrIncompatible, base.ID, target.ID)
	}
	return converted, nil
}

// ConvertNumber recalculates n of original into one of systems and picks the
// most readable category and form for language l. translated is the unit the
// translation used; it may be nil.
func (c *Converter) ConvertNumber(ctx context.Context, l *lang.Language, systems Systems, n float64, original, translated *Unit, q Query) (float64, *Unit, error) {
	base := c.BaseOf(original.Category)
	if base.Conversion == nil {
		return 0, nil, fmt.Errorf("%w: %s", ErrNoConversion, base.ID)
	}

	converted, id, err := base.Conversion(ctx, c.rates, c.ToBaseInCategory(original, n), base.ID, systems)
	if err != nil {
		return 0, nil, err
	}

	number, unit := c.BestUnitForConverted(l, converted, c.Category(id), original, translated, q)
	return number, unit, nil
}

// BestUnitForConverted keeps the translated unit's category when the
// conversion already landed there; otherwise it moves n, given in base
// category, to the derived category with the smallest value above 1.
func (c *Converter) BestUnitForConverted(l *lang.Language, n float64, base *Category, original, translated *Unit, q Query) (float64, *Unit) {
	q.Category = base
	if translated != nil && translated.Category == base {
		return n, c.CorrectUnit(l, n, original, q)
	}

	best := n
	for _, d := range c.Derived(base) {
		if len(c.Units(l, d)) == 0 {
			continue
		}
		v := n / d.BaseCoefficient
		if v > 1 && v < best {
			best = v
			q.Category = d
		}
	}
	return best, c.CorrectUnit(l, best, original, q)
}
