// Package rewards keeps the points balance and the shop catalog.
//
// Ledger is not safe for concurrent use; the owning service serializes
// calls so that the balance check and the deduction in Purchase happen
// under one lock.
package rewards

import (
	"fmt"
	"strings"

	apperrors "pomodoro/tracker/internal/errors"
	"pomodoro/tracker/internal/model"
)

type Ledger struct {
	points int
	items  []model.ShopItem
}

// NewLedger restores a balance and catalog. A negative balance is treated
// as zero.
func NewLedger(points int, items []model.ShopItem) *Ledger {
	if points < 0 {
		points = 0
	}
	return &Ledger{
		points: points,
		items:  append([]model.ShopItem(nil), items...),
	}
}

func (l *Ledger) Points() int {
	return l.points
}

// Items returns a copy of the catalog in purchase-index order.
func (l *Ledger) Items() []model.ShopItem {
	return append([]model.ShopItem(nil), l.items...)
}

func (l *Ledger) Award(amount int) error {
	if amount < 0 {
		return apperrors.InvalidArgument(fmt.Sprintf("award amount must not be negative, got %d", amount))
	}
	l.points += amount
	return nil
}

// Purchase deducts the cost of the item at index. On failure the balance
// is untouched.
func (l *Ledger) Purchase(index int) (model.ShopItem, error) {
	if index < 0 || index >= len(l.items) {
		return model.ShopItem{}, apperrors.OutOfRange(
			fmt.Sprintf("shop item %d does not exist", index),
			map[string]int{"index": index, "items": len(l.items)},
		)
	}
	item := l.items[index]
	if l.points < item.Cost {
		return model.ShopItem{}, apperrors.InsufficientFunds(
			"not enough points",
			map[string]int{"points": l.points, "cost": item.Cost},
		)
	}
	l.points -= item.Cost
	return item, nil
}

func (l *Ledger) AddItem(name string, cost int, description string) (model.ShopItem, error) {
	item := model.ShopItem{Name: name, Cost: cost, Description: description}
	if err := ValidateItem(item); err != nil {
		return model.ShopItem{}, err
	}
	l.items = append(l.items, item)
	return item, nil
}

// ValidateItem applies the catalog rules for a shop item.
func ValidateItem(item model.ShopItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return apperrors.InvalidArgument("shop item name is required")
	}
	if strings.TrimSpace(item.Description) == "" {
		return apperrors.InvalidArgument("shop item description is required")
	}
	if item.Cost < 0 {
		return apperrors.InvalidArgument(fmt.Sprintf("shop item cost must not be negative, got %d", item.Cost))
	}
	return nil
}
