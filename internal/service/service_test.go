package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/orders-admin/internal/filter"
	"github.com/mmeshcher/orders-admin/internal/model"
	"github.com/mmeshcher/orders-admin/internal/orderapi"
	"github.com/mmeshcher/orders-admin/internal/session"
)

type stubAPI struct {
	orders    []model.Order
	ordersErr error

	details    *model.OrderDetails
	detailsErr error

	uploadErr   error
	markPaidErr error

	listCalls     int
	getCalls      int
	uploadCalls   int
	markPaidCalls int
}

func (s *stubAPI) ListDelivered(ctx context.Context) ([]model.Order, error) {
	s.listCalls++
	return s.orders, s.ordersErr
}

func (s *stubAPI) GetOrder(ctx context.Context, token, orderID string) (*model.OrderDetails, error) {
	s.getCalls++
	return s.details, s.detailsErr
}

func (s *stubAPI) UploadReceipt(ctx context.Context, token, orderID string, file orderapi.ReceiptFile) error {
	s.uploadCalls++
	return s.uploadErr
}

func (s *stubAPI) MarkPaid(ctx context.Context, token, orderID string) error {
	s.markPaidCalls++
	return s.markPaidErr
}

func newTestService(api *stubAPI) *Service {
	return NewService(api, zap.NewNop())
}

func TestDeliveredOrders_FetchErrorYieldsEmptyList(t *testing.T) {
	api := &stubAPI{ordersErr: errors.New("connection refused")}
	svc := newTestService(api)

	list := svc.DeliveredOrders(context.Background(), filter.Criteria{})

	if list.Total != 0 || list.Shown != 0 || len(list.Orders) != 0 {
		t.Fatalf("unexpected list on fetch error: %+v", list)
	}
	if list.Filtered {
		t.Fatalf("list must not be marked filtered without criteria")
	}
}

func TestDeliveredOrders_AppliesFilter(t *testing.T) {
	now := time.Now()
	api := &stubAPI{
		orders: []model.Order{
			{ID: "1", Number: "ORD-100", PaymentStatus: model.PaymentStatusPaid, CreatedAt: now},
			{ID: "2", Number: "ORD-101", PaymentStatus: model.PaymentStatusPending, CreatedAt: now},
		},
	}
	svc := newTestService(api)

	list := svc.DeliveredOrders(context.Background(), filter.Criteria{Payment: filter.PaymentUnpaid})

	if list.Total != 2 {
		t.Fatalf("Total = %d, want 2", list.Total)
	}
	if list.Shown != 1 || len(list.Orders) != 1 || list.Orders[0].ID != "2" {
		t.Fatalf("unexpected filtered orders: %+v", list.Orders)
	}
	if !list.Filtered {
		t.Fatalf("list must be marked filtered")
	}
}

func TestOrderDetails_NoToken(t *testing.T) {
	api := &stubAPI{}
	svc := newTestService(api)

	_, err := svc.OrderDetails(context.Background(), "", "42")
	if !errors.Is(err, session.ErrNoToken) {
		t.Fatalf("error = %v, want ErrNoToken", err)
	}
	if api.getCalls != 0 {
		t.Fatalf("GetOrder called %d times, want 0", api.getCalls)
	}
}

func TestSubmitPayment_NoTokenPerformsNoCalls(t *testing.T) {
	api := &stubAPI{}
	svc := newTestService(api)

	status := svc.SubmitPayment(context.Background(), "", "42", nil)

	if !status.IsFailure() {
		t.Fatalf("status = %+v, want failure", status)
	}
	if status.Text != "Authentication token not found." {
		t.Fatalf("text = %q, want fixed authentication message", status.Text)
	}
	if api.uploadCalls != 0 || api.markPaidCalls != 0 {
		t.Fatalf("API called without token: upload=%d markPaid=%d", api.uploadCalls, api.markPaidCalls)
	}
}

func TestSubmitPayment_WithFileUploadsExactlyOnce(t *testing.T) {
	api := &stubAPI{}
	svc := newTestService(api)

	file := &orderapi.ReceiptFile{Name: "receipt.pdf", Content: strings.NewReader("data")}
	status := svc.SubmitPayment(context.Background(), "token", "42", file)

	if status.IsFailure() {
		t.Fatalf("status = %+v, want success", status)
	}
	if status.Text != "Receipt uploaded successfully!" {
		t.Fatalf("text = %q", status.Text)
	}
	if api.uploadCalls != 1 {
		t.Fatalf("upload calls = %d, want 1", api.uploadCalls)
	}
	if api.markPaidCalls != 0 {
		t.Fatalf("markPaid calls = %d, want 0", api.markPaidCalls)
	}
}

func TestSubmitPayment_WithoutFileMarksPaidExactlyOnce(t *testing.T) {
	api := &stubAPI{}
	svc := newTestService(api)

	status := svc.SubmitPayment(context.Background(), "token", "42", nil)

	if status.IsFailure() {
		t.Fatalf("status = %+v, want success", status)
	}
	if api.markPaidCalls != 1 {
		t.Fatalf("markPaid calls = %d, want 1", api.markPaidCalls)
	}
	if api.uploadCalls != 0 {
		t.Fatalf("upload calls = %d, want 0", api.uploadCalls)
	}
}

func TestSubmitPayment_ServerMessageSurfacedVerbatim(t *testing.T) {
	api := &stubAPI{
		markPaidErr: &orderapi.APIError{StatusCode: 409, Message: "Order already paid"},
	}
	svc := newTestService(api)

	status := svc.SubmitPayment(context.Background(), "token", "42", nil)

	if !status.IsFailure() {
		t.Fatalf("status = %+v, want failure", status)
	}
	if status.Text != "Order already paid" {
		t.Fatalf("text = %q, want server message verbatim", status.Text)
	}
}

func TestSubmitPayment_FallbackMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{
			name:     "API error without message",
			err:      &orderapi.APIError{StatusCode: 500},
			wantText: "Upload failed",
		},
		{
			name:     "transport error",
			err:      errors.New("dial tcp: connection refused"),
			wantText: "Error uploading receipt. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAPI{markPaidErr: tt.err}
			svc := newTestService(api)

			status := svc.SubmitPayment(context.Background(), "token", "42", nil)

			if !status.IsFailure() {
				t.Fatalf("status = %+v, want failure", status)
			}
			if status.Text != tt.wantText {
				t.Fatalf("text = %q, want %q", status.Text, tt.wantText)
			}
		})
	}
}

func TestSubmitPayment_MissingOrderID(t *testing.T) {
	api := &stubAPI{}
	svc := newTestService(api)

	status := svc.SubmitPayment(context.Background(), "token", "", nil)

	if !status.IsFailure() {
		t.Fatalf("status = %+v, want failure", status)
	}
	if api.uploadCalls != 0 || api.markPaidCalls != 0 {
		t.Fatalf("API called without order id")
	}
}
