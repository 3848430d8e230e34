// Package orderapi предоставляет клиент для внешнего API управления заказами.
//
// Контракт внешнего API непоследователен: список заказов приходит либо
// массивом, либо объектом с полем "orders", а одиночный заказ — либо объектом,
// либо обёрткой с полем "order". Нормализация обеих форм выполняется здесь,
// на границе с API, и наружу не просачивается.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mmeshcher/orders-admin/internal/model"
)

const paymentStatusPaid = "Paid"

// Client инкапсулирует HTTP-взаимодействие с API управления заказами.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент для обращения к API заказов по указанному адресу.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// APIError описывает неуспешный ответ внешнего API. Message содержит текст из
// поля "message" тела ответа, если тело удалось разобрать, иначе пустую строку.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("order API status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("order API status %d", e.StatusCode)
}

// ReceiptFile описывает загружаемый файл чека.
type ReceiptFile struct {
	Name    string
	Content io.Reader
}

func (c *Client) url(path string) string {
	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base + path
}

// ListDelivered запрашивает все заказы со статусом доставки "Delivered".
// Авторизация для этого запроса не требуется. Тело, не содержащее ни одной из
// двух известных форм списка, нормализуется в пустой список без ошибки.
func (c *Client) ListDelivered(ctx context.Context) ([]model.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/orders/status/Delivered"), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return decodeOrderList(body)
}

// decodeOrderList разбирает тело списка заказов: сначала как массив, затем как
// объект с полем "orders". Валидный JSON любой другой формы даёт пустой список.
func decodeOrderList(body []byte) ([]model.Order, error) {
	var orders []model.Order
	if err := json.Unmarshal(body, &orders); err == nil {
		return orders, nil
	}

	var wrapped struct {
		Orders []model.Order `json:"orders"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}

	if wrapped.Orders == nil {
		return []model.Order{}, nil
	}
	return wrapped.Orders, nil
}

// GetOrder запрашивает заказ по идентификатору с авторизацией по bearer-токену.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*model.OrderDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/orders/"+orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return decodeOrderDetails(body)
}

// decodeOrderDetails разбирает тело одиночного заказа: обёртку {"order": {...}}
// или объект заказа без обёртки.
func decodeOrderDetails(body []byte) (*model.OrderDetails, error) {
	var wrapped struct {
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Order) > 0 {
		body = wrapped.Order
	}

	var details model.OrderDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}

	return &details, nil
}

// UploadReceipt отправляет файл чека и одновременно переводит заказ в статус
// оплаты "Paid" одним multipart-запросом.
func (c *Client) UploadReceipt(ctx context.Context, token, orderID string, file ReceiptFile) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("uploadReceipt", file.Name)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := mw.WriteField("paymentStatus", paymentStatusPaid); err != nil {
		return fmt.Errorf("write form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url("/api/orders/"+orderID+"/payment-fields"), &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(resp)
	}

	return nil
}

// MarkPaid переводит заказ в статус оплаты "Paid" без загрузки чека.
func (c *Client) MarkPaid(ctx context.Context, token, orderID string) error {
	body, err := json.Marshal(map[string]string{"paymentStatus": paymentStatusPaid})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url("/api/orders/"+orderID+"/payment-fields"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(resp)
	}

	return nil
}

// apiError строит APIError по неуспешному ответу, извлекая поле "message"
// из тела, когда это возможно.
func (c *Client) apiError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
	}

	return apiErr
}
