// Package filter реализует фильтрацию списка заказов в памяти.
package filter

import (
	"strings"
	"time"

	"github.com/mmeshcher/orders-admin/internal/model"
)

// PaymentFilter задаёт фильтр по статусу оплаты.
type PaymentFilter string

const (
	PaymentAny    PaymentFilter = ""
	PaymentPaid   PaymentFilter = "paid"
	PaymentUnpaid PaymentFilter = "unpaid"
)

// DateFilter задаёт фильтр по дате создания заказа.
type DateFilter string

const (
	DateAny   DateFilter = ""
	DateToday DateFilter = "today"
	DateWeek  DateFilter = "week"
	DateMonth DateFilter = "month"
)

// Criteria описывает текущие критерии фильтрации списка заказов.
// Пустые значения означают отсутствие фильтра.
type Criteria struct {
	Search  string
	Payment PaymentFilter
	Date    DateFilter
}

// HasActive сообщает, установлен ли хотя бы один критерий.
func (c Criteria) HasActive() bool {
	return c.Search != "" || c.Payment != PaymentAny || c.Date != DateAny
}

// Reset сбрасывает все критерии одновременно.
func (c *Criteria) Reset() {
	*c = Criteria{}
}

// Apply возвращает подмножество заказов, удовлетворяющее всем установленным
// критериям. Критерии объединяются по И; при пустых критериях возвращается
// копия исходного списка. Время now задаёт границы датных интервалов.
func Apply(orders []model.Order, c Criteria, now time.Time) []model.Order {
	result := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if !matchesSearch(o, c.Search) {
			continue
		}
		if !matchesPayment(o, c.Payment) {
			continue
		}
		if !matchesDate(o, c.Date, now) {
			continue
		}
		result = append(result, o)
	}
	return result
}

// matchesSearch проверяет вхождение подстроки без учёта регистра в номер
// заказа, название центра, идентификатор центра или название любого товара.
func matchesSearch(o model.Order, term string) bool {
	if term == "" {
		return true
	}

	term = strings.ToLower(term)

	if strings.Contains(strings.ToLower(o.Number), term) {
		return true
	}
	if strings.Contains(strings.ToLower(o.Centre.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(o.Centre.CentreID), term) {
		return true
	}
	for _, item := range o.Items {
		if strings.Contains(strings.ToLower(item.Product.Name), term) {
			return true
		}
	}

	return false
}

// matchesPayment проверяет статус оплаты. Фильтр "unpaid" пропускает все
// заказы, статус которых не равен точному значению "Paid".
func matchesPayment(o model.Order, f PaymentFilter) bool {
	switch f {
	case PaymentPaid:
		return o.PaymentStatus.IsPaid()
	case PaymentUnpaid:
		return !o.PaymentStatus.IsPaid()
	default:
		return true
	}
}

// matchesDate проверяет дату создания заказа. Нижняя граница включительна,
// верхней границы нет.
func matchesDate(o model.Order, f DateFilter, now time.Time) bool {
	var from time.Time

	switch f {
	case DateToday:
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case DateWeek:
		from = now.AddDate(0, 0, -7)
	case DateMonth:
		from = now.AddDate(0, 0, -30)
	default:
		return true
	}

	return !o.CreatedAt.Before(from)
}
