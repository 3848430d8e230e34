// Package handler содержит HTTP-обработчики страниц сервиса администрирования заказов.
package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/orders-admin/internal/filter"
	"github.com/mmeshcher/orders-admin/internal/model"
	"github.com/mmeshcher/orders-admin/internal/orderapi"
	"github.com/mmeshcher/orders-admin/internal/service"
	"github.com/mmeshcher/orders-admin/internal/session"
)

// Сообщения страниц.
const (
	msgDetailsFailed = "Failed to load order details."
	msgTokenRequired = "Enter an API token."
	msgTokenSaved    = "Token saved."
)

// maxReceiptSize ограничивает размер принимаемого файла чека.
const maxReceiptSize = 10 << 20

// Service определяет контракт логики, используемой HTTP-обработчиками.
type Service interface {
	DeliveredOrders(ctx context.Context, criteria filter.Criteria) service.OrderList
	OrderDetails(ctx context.Context, token, orderID string) (*model.OrderDetails, error)
	SubmitPayment(ctx context.Context, token, orderID string, file *orderapi.ReceiptFile) service.Status
}

// Handler реализует HTTP-обработчики страниц сервиса.
type Handler struct {
	service  Service
	logger   *zap.Logger
	sessions *session.Manager
	pages    *pageTemplates
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, sessions *session.Manager) (*Handler, error) {
	pages, err := parsePageTemplates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		service:  s,
		logger:   logger,
		sessions: sessions,
		pages:    pages,
	}, nil
}

type orderRow struct {
	ID               string
	Number           string
	NumberBadge      string
	CentreName       string
	CentreID         string
	ItemCount        int
	ProductNames     string
	Amount           string
	Status           string
	Date             string
	Time             string
	PaymentStatus    string
	PaymentClass     string
	CanUploadReceipt bool
}

type ordersPage struct {
	Rows     []orderRow
	Total    int
	Shown    int
	Filtered bool
	Search   string
	Payment  string
	Period   string
	Flash    *service.Status
}

type detailsPage struct {
	OrderID        string
	Details        *model.OrderDetails
	Amount         string
	Status         *service.Status
	SubmitDisabled bool
}

type loginPage struct {
	Status *service.Status
}

// OrdersPage показывает список доставленных заказов с учётом критериев
// фильтрации из строки запроса.
func (h *Handler) OrdersPage(w http.ResponseWriter, r *http.Request) {
	criteria := parseCriteria(r)
	list := h.service.DeliveredOrders(r.Context(), criteria)

	page := ordersPage{
		Rows:     make([]orderRow, 0, len(list.Orders)),
		Total:    list.Total,
		Shown:    list.Shown,
		Filtered: list.Filtered,
		Search:   criteria.Search,
		Payment:  string(criteria.Payment),
		Period:   string(criteria.Date),
		Flash:    flashFromQuery(r),
	}

	for _, o := range list.Orders {
		page.Rows = append(page.Rows, newOrderRow(o))
	}

	h.render(w, http.StatusOK, "orders", page)
}

// InvoicePage показывает данные заказа по идентификатору.
func (h *Handler) InvoicePage(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	page := detailsPage{OrderID: orderID}

	token, err := session.TokenFromContext(r.Context())
	if err != nil {
		page.Status = &service.Status{Kind: service.StatusFailure, Text: service.MsgAuthRequired}
		h.render(w, http.StatusOK, "invoice", page)
		return
	}

	details, err := h.service.OrderDetails(r.Context(), token, orderID)
	if err != nil {
		page.Status = &service.Status{Kind: service.StatusFailure, Text: msgDetailsFailed}
		h.render(w, http.StatusOK, "invoice", page)
		return
	}

	page.Details = details
	page.Amount = formatAmount(details.TotalAmount)
	h.render(w, http.StatusOK, "invoice", page)
}

// ReceiptPage показывает форму загрузки чека с текущими данными заказа.
func (h *Handler) ReceiptPage(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	page := h.receiptPageData(r.Context(), orderID, nil)
	h.render(w, http.StatusOK, "receipt", page)
}

// SubmitReceipt выполняет загрузку чека и/или перевод заказа в статус "Paid".
// Успех завершается редиректом на список, чтобы тот перечитал данные с сервера.
func (h *Handler) SubmitReceipt(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	token, _ := session.TokenFromContext(r.Context())

	var file *orderapi.ReceiptFile
	if err := r.ParseMultipartForm(maxReceiptSize); err == nil {
		if f, fh, ferr := r.FormFile("uploadReceipt"); ferr == nil && fh.Filename != "" {
			defer f.Close()
			file = &orderapi.ReceiptFile{Name: fh.Filename, Content: f}
		}
	}

	status := h.service.SubmitPayment(r.Context(), token, orderID, file)
	if !status.IsFailure() {
		http.Redirect(w, r, "/orders?flash=success&msg="+url.QueryEscape(status.Text), http.StatusSeeOther)
		return
	}

	page := h.receiptPageData(r.Context(), orderID, &status)
	h.render(w, http.StatusOK, "receipt", page)
}

// receiptPageData собирает данные страницы чека: сводку заказа, если токен
// есть и заказ удалось получить, и статус операции. Статус операции имеет
// приоритет над ошибкой загрузки сводки.
func (h *Handler) receiptPageData(ctx context.Context, orderID string, status *service.Status) detailsPage {
	page := detailsPage{OrderID: orderID, Status: status}

	token, err := session.TokenFromContext(ctx)
	if err != nil {
		if page.Status == nil {
			page.Status = &service.Status{Kind: service.StatusFailure, Text: service.MsgAuthRequired}
		}
		return page
	}

	details, err := h.service.OrderDetails(ctx, token, orderID)
	if err != nil {
		if page.Status == nil {
			page.Status = &service.Status{Kind: service.StatusFailure, Text: msgDetailsFailed}
		}
		return page
	}

	page.Details = details
	page.Amount = formatAmount(details.TotalAmount)
	page.SubmitDisabled = details.PaymentStatus.IsPaid()
	return page
}

// LoginPage показывает форму сохранения токена внешнего API.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login", loginPage{})
}

// Login сохраняет токен внешнего API в подписанном cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	if token == "" {
		page := loginPage{Status: &service.Status{Kind: service.StatusFailure, Text: msgTokenRequired}}
		h.render(w, http.StatusBadRequest, "login", page)
		return
	}

	h.sessions.SetToken(w, token)
	http.Redirect(w, r, "/orders?flash=success&msg="+url.QueryEscape(msgTokenSaved), http.StatusSeeOther)
}

// Logout удаляет сохранённый токен.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// parseCriteria читает критерии фильтрации из строки запроса, отбрасывая
// неизвестные значения.
func parseCriteria(r *http.Request) filter.Criteria {
	q := r.URL.Query()

	criteria := filter.Criteria{
		Search: q.Get("q"),
	}

	switch p := filter.PaymentFilter(q.Get("payment")); p {
	case filter.PaymentPaid, filter.PaymentUnpaid:
		criteria.Payment = p
	}

	switch d := filter.DateFilter(q.Get("period")); d {
	case filter.DateToday, filter.DateWeek, filter.DateMonth:
		criteria.Date = d
	}

	return criteria
}

// flashFromQuery восстанавливает статус операции после редиректа.
func flashFromQuery(r *http.Request) *service.Status {
	q := r.URL.Query()

	msg := q.Get("msg")
	if msg == "" {
		return nil
	}

	switch kind := service.StatusKind(q.Get("flash")); kind {
	case service.StatusSuccess, service.StatusFailure:
		return &service.Status{Kind: kind, Text: msg}
	}
	return nil
}

func newOrderRow(o model.Order) orderRow {
	return orderRow{
		ID:               o.ID,
		Number:           o.Number,
		NumberBadge:      numberBadge(o.Number),
		CentreName:       o.Centre.Name,
		CentreID:         o.Centre.CentreID,
		ItemCount:        len(o.Items),
		ProductNames:     joinProductNames(o.Items),
		Amount:           formatAmount(o.TotalAmount),
		Status:           string(o.Status),
		Date:             o.CreatedAt.Format("02/01/2006"),
		Time:             o.CreatedAt.Format("15:04"),
		PaymentStatus:    paymentLabel(o.PaymentStatus),
		PaymentClass:     paymentClass(o.PaymentStatus),
		CanUploadReceipt: !o.PaymentStatus.IsPaid(),
	}
}

// numberBadge возвращает последние три символа номера заказа для круглой метки.
func numberBadge(number string) string {
	if len(number) <= 3 {
		return number
	}
	return number[len(number)-3:]
}

func joinProductNames(items []model.OrderItem) string {
	names := ""
	for i, item := range items {
		if i > 0 {
			names += ", "
		}
		names += item.Product.Name
	}
	return names
}

func formatAmount(amount float64) string {
	return "₹" + strconv.FormatFloat(amount, 'f', 2, 64)
}

func paymentLabel(s model.PaymentStatus) string {
	if s == "" {
		return "Unknown"
	}
	return string(s)
}

// paymentClass подбирает CSS-класс для известных статусов оплаты;
// неизвестные значения получают нейтральное оформление.
func paymentClass(s model.PaymentStatus) string {
	switch s {
	case model.PaymentStatusPaid:
		return "paid"
	case model.PaymentStatusPending:
		return "pending"
	case model.PaymentStatusFailed:
		return "failed"
	case model.PaymentStatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}
