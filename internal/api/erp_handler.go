package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"vivendi/backend/internal/email"
	"vivendi/backend/internal/erp"
)

// ERPHandler exposes a thin pass-through to the Laudus gateway plus the
// order intake, which also fires a confirmation email when the buyer left
// an address.
type ERPHandler struct {
	gateway *erp.Gateway
	mailer  *email.Client
	rp      *Responder
}

func NewERPHandler(gateway *erp.Gateway, mailer *email.Client, rp *Responder) *ERPHandler {
	return &ERPHandler{gateway: gateway, mailer: mailer, rp: rp}
}

type OrderItemRequest struct {
	SKU       string  `json:"sku" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"min=0"`
}

type OrderContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

type CreateOrderRequest struct {
	CustomerID        int64                `json:"customerId" validate:"required"`
	SellerID          int64                `json:"sellerId" validate:"required"`
	PaymentTermID     string               `json:"paymentTermId" validate:"required"`
	ShippingAddressID *int64               `json:"shippingAddressId"`
	Comments          string               `json:"comments"`
	Contact           *OrderContactRequest `json:"contact"`
	Items             []OrderItemRequest   `json:"items" validate:"required,min=1,dive"`

	// ClientID names the tenant whose mail channel carries the confirmation.
	ClientID string `json:"clientId" validate:"omitempty,uuid4"`
}

type CreateOrderResponse struct {
	SalesOrderID int64 `json:"salesOrderId"`
}

// Customers godoc
// @Summary  List ERP customers
// @Tags     ERP
// @Produce  json
// @Success  200  {object}  DataResponse
// @Failure  500  {object}  ErrorBody
// @Router   /v1/erp/customers [get]
func (h *ERPHandler) Customers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.gateway.GetCustomers(r.Context())
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, customers)
}

// Products godoc
// @Summary  List ERP products
// @Tags     ERP
// @Produce  json
// @Success  200  {object}  DataResponse
// @Failure  500  {object}  ErrorBody
// @Router   /v1/erp/products [get]
func (h *ERPHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.gateway.GetProducts(r.Context())
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, products)
}

// Sellers godoc
// @Summary  List ERP sellers
// @Tags     ERP
// @Produce  json
// @Success  200  {object}  DataResponse
// @Failure  500  {object}  ErrorBody
// @Router   /v1/erp/sellers [get]
func (h *ERPHandler) Sellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.gateway.GetSellers(r.Context())
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, sellers)
}

// Stock godoc
// @Summary  Warehouse stock levels
// @Tags     ERP
// @Produce  json
// @Param    warehouseId  query     string  false  "Warehouse id (default 001)"
// @Success  200          {object}  DataResponse
// @Failure  500          {object}  ErrorBody
// @Router   /v1/erp/stock [get]
func (h *ERPHandler) Stock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.gateway.GetStock(r.Context(), r.URL.Query().Get("warehouseId"))
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}
	h.rp.Data(w, http.StatusOK, stock)
}

// CreateOrder godoc
// @Summary      Push a sales order into the ERP
// @Description  Creates the order in Laudus and, when the buyer left an email
// @Description  and the request names a tenant, sends a confirmation through
// @Description  the tenant's mail channel. A failed email never fails the order.
// @Tags         ERP
// @Accept       json
// @Produce      json
// @Param        order  body      CreateOrderRequest  true  "Order"
// @Success      201    {object}  DataResponse
// @Failure      400    {object}  ErrorBody
// @Failure      500    {object}  ErrorBody
// @Router       /v1/erp/orders [post]
func (h *ERPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.rp.Error(w, r, err)
		return
	}

	order := erp.OrderData{
		CustomerID:        req.CustomerID,
		SellerID:          req.SellerID,
		PaymentTermID:     req.PaymentTermID,
		ShippingAddressID: req.ShippingAddressID,
		Comments:          req.Comments,
		Items:             make([]erp.OrderItem, len(req.Items)),
	}
	if req.Contact != nil {
		order.Contact = &erp.OrderContact{
			Name:  req.Contact.Name,
			Phone: req.Contact.Phone,
			Email: req.Contact.Email,
		}
	}
	for i, item := range req.Items {
		order.Items[i] = erp.OrderItem{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	orderID, err := h.gateway.CreateOrder(r.Context(), order)
	if err != nil {
		h.rp.Error(w, r, err)
		return
	}

	h.sendConfirmation(r, req, orderID)

	h.rp.Data(w, http.StatusCreated, CreateOrderResponse{SalesOrderID: orderID})
}

// sendConfirmation is best effort: the order already exists in the ERP, so
// a mail failure is logged and swallowed.
func (h *ERPHandler) sendConfirmation(r *http.Request, req CreateOrderRequest, orderID int64) {
	if h.mailer == nil || req.ClientID == "" || req.Contact == nil || req.Contact.Email == "" {
		return
	}

	_, err := h.mailer.Send(r.Context(), req.ClientID, email.SendRequest{
		To:      []string{req.Contact.Email},
		Subject: fmt.Sprintf("Orden de venta #%d recibida", orderID),
		Body:    fmt.Sprintf("Hemos recibido tu orden de venta #%d. Te contactaremos a la brevedad.", orderID),
	})
	if err != nil {
		slog.Error("order confirmation email failed",
			"orderId", orderID,
			"clientId", req.ClientID,
			"error", err,
		)
	}
}
