// Package model содержит клиентские модели данных сервиса администрирования заказов.
package model

import "time"

// PaymentStatus описывает статус оплаты заказа.
type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusFailed   PaymentStatus = "Failed"
	PaymentStatusRefunded PaymentStatus = "Refunded"
)

// IsPaid сообщает, оплачен ли заказ. Любое значение, кроме точного "Paid",
// считается неоплаченным.
func (s PaymentStatus) IsPaid() bool {
	return s == PaymentStatusPaid
}

// FulfillmentStatus описывает статус доставки заказа.
type FulfillmentStatus string

// FulfillmentStatusDelivered — единственный статус доставки, с которым работает сервис.
const FulfillmentStatusDelivered FulfillmentStatus = "Delivered"

// Centre описывает центр выдачи, к которому привязан заказ.
type Centre struct {
	Name     string `json:"name"`
	CentreID string `json:"centreId"`
}

// Product описывает товар в позиции заказа.
type Product struct {
	Name string `json:"name"`
}

// OrderItem описывает одну позицию заказа.
type OrderItem struct {
	Quantity int     `json:"quantity"`
	Product  Product `json:"product"`
}

// Order описывает доставленный заказ в том виде, в котором его возвращает
// внешний API заказов. Сущность живёт только в памяти и пересоздаётся при
// каждом запросе списка.
type Order struct {
	ID            string            `json:"_id"`
	Number        string            `json:"orderNo"`
	Centre        Centre            `json:"centreId"`
	Items         []OrderItem       `json:"products"`
	TotalAmount   float64           `json:"totalAmount"`
	Status        FulfillmentStatus `json:"status"`
	PaymentStatus PaymentStatus     `json:"paymentStatus"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// OrderDetails — узкая проекция заказа для страницы загрузки чека.
type OrderDetails struct {
	ID            string        `json:"_id"`
	Number        string        `json:"orderNo"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}
