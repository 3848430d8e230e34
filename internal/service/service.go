// Package service реализует логику сервиса администрирования заказов поверх
// клиента внешнего API.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/orders-admin/internal/filter"
	"github.com/mmeshcher/orders-admin/internal/metrics"
	"github.com/mmeshcher/orders-admin/internal/model"
	"github.com/mmeshcher/orders-admin/internal/orderapi"
	"github.com/mmeshcher/orders-admin/internal/session"
)

// MsgAuthRequired показывается при любой попытке авторизованной операции
// без сохранённого токена.
const MsgAuthRequired = "Authentication token not found."

// Сообщения, видимые оператору.
const (
	msgOrderRequired   = "Order is not specified."
	msgReceiptUploaded = "Receipt uploaded successfully!"
	msgMarkedPaid      = "Order marked as paid."
	msgRequestFailed   = "Upload failed"
	msgGenericFailure  = "Error uploading receipt. Please try again."
)

// OrderAPI определяет контракт клиента внешнего API, используемый сервисом.
type OrderAPI interface {
	ListDelivered(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, token, orderID string) (*model.OrderDetails, error)
	UploadReceipt(ctx context.Context, token, orderID string, file orderapi.ReceiptFile) error
	MarkPaid(ctx context.Context, token, orderID string) error
}

// Service содержит логику страниц администрирования заказов.
type Service struct {
	api    OrderAPI
	logger *zap.Logger
}

// NewService создаёт новый сервис с указанным клиентом API заказов.
func NewService(api OrderAPI, logger *zap.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger,
	}
}

// OrderList описывает результат выборки заказов для страницы списка.
type OrderList struct {
	Orders   []model.Order
	Total    int
	Shown    int
	Filtered bool
}

// StatusKind различает успешный и неуспешный исход операции.
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusFailure StatusKind = "failure"
)

// Status — помеченный результат операции с текстом для оператора.
// Исход определяется полем Kind, а не содержимым текста.
type Status struct {
	Kind StatusKind
	Text string
}

// IsFailure сообщает, завершилась ли операция неуспехом.
func (s Status) IsFailure() bool {
	return s.Kind == StatusFailure
}

func success(text string) Status {
	return Status{Kind: StatusSuccess, Text: text}
}

func failure(text string) Status {
	return Status{Kind: StatusFailure, Text: text}
}

// DeliveredOrders запрашивает доставленные заказы и применяет критерии
// фильтрации. Ошибка запроса или разбора не прерывает показ страницы:
// список считается пустым, ошибка уходит в журнал и метрики.
func (s *Service) DeliveredOrders(ctx context.Context, criteria filter.Criteria) OrderList {
	orders, err := s.api.ListDelivered(ctx)
	if err != nil {
		s.logger.Error("fetch delivered orders", zap.Error(err))
		metrics.OperationErrorsTotal.WithLabelValues("list_orders").Inc()
		orders = []model.Order{}
	} else {
		metrics.OrdersFetchedTotal.Inc()
	}

	visible := filter.Apply(orders, criteria, time.Now())

	return OrderList{
		Orders:   visible,
		Total:    len(orders),
		Shown:    len(visible),
		Filtered: criteria.HasActive(),
	}
}

// OrderDetails запрашивает данные заказа для страницы загрузки чека.
// Без токена запрос к API не отправляется.
func (s *Service) OrderDetails(ctx context.Context, token, orderID string) (*model.OrderDetails, error) {
	if token == "" {
		return nil, session.ErrNoToken
	}

	details, err := s.api.GetOrder(ctx, token, orderID)
	if err != nil {
		s.logger.Error("fetch order details", zap.Error(err), zap.String("order", orderID))
		metrics.OperationErrorsTotal.WithLabelValues("order_details").Inc()
		return nil, err
	}

	return details, nil
}

// SubmitPayment выполняет ровно одну изменяющую операцию: загрузку чека с
// переводом заказа в "Paid" (если файл выбран) или перевод в "Paid" без файла.
// Отсутствующий токен прерывает операцию до отправки запроса.
func (s *Service) SubmitPayment(ctx context.Context, token, orderID string, file *orderapi.ReceiptFile) Status {
	if orderID == "" {
		return failure(msgOrderRequired)
	}
	if token == "" {
		return failure(MsgAuthRequired)
	}

	if file != nil {
		if err := s.api.UploadReceipt(ctx, token, orderID, *file); err != nil {
			s.logger.Error("upload receipt", zap.Error(err), zap.String("order", orderID))
			metrics.OperationErrorsTotal.WithLabelValues("upload_receipt").Inc()
			return failure(failureText(err))
		}
		metrics.ReceiptUploadsTotal.Inc()
		return success(msgReceiptUploaded)
	}

	if err := s.api.MarkPaid(ctx, token, orderID); err != nil {
		s.logger.Error("mark order paid", zap.Error(err), zap.String("order", orderID))
		metrics.OperationErrorsTotal.WithLabelValues("mark_paid").Inc()
		return failure(failureText(err))
	}
	metrics.OrdersMarkedPaidTotal.Inc()
	return success(msgMarkedPaid)
}

// failureText выбирает текст для оператора: сообщение сервера, если API его
// вернуло, иначе общую формулировку.
func failureText(err error) string {
	var apiErr *orderapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return msgRequestFailed
	}
	return msgGenericFailure
}
