package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OrderContact is optional buyer contact data folded into the order notes.
type OrderContact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type OrderItem struct {
	SKU       string  `json:"sku"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderData is the backend-side view of a sales order to push into the ERP.
type OrderData struct {
	CustomerID        int64         `json:"customer_id"`
	SellerID          int64         `json:"seller_id"`
	PaymentTermID     string        `json:"payment_term_id"`
	ShippingAddressID *int64        `json:"shipping_address_id,omitempty"`
	Comments          string        `json:"comments,omitempty"`
	Contact           *OrderContact `json:"contact,omitempty"`
	Items             []OrderItem   `json:"items"`
}

// CreateOrder pushes a sales order and returns the ERP-assigned id.
// The envelope mirrors what the Laudus sales/orders endpoint expects,
// including the fields this backend never varies.
func (g *Gateway) CreateOrder(ctx context.Context, order OrderData) (int64, error) {
	// Laudus runs on Chile time; issued/due dates are shifted accordingly.
	issued := g.now().Add(-4 * time.Hour)

	items := make([]map[string]any, len(order.Items))
	for i, item := range order.Items {
		items[i] = map[string]any{
			"product":              map[string]any{"sku": item.SKU},
			"itemOrder":            i + 1,
			"quantity":             item.Quantity,
			"originalUnitPrice":    item.UnitPrice,
			"currencyCode":         "CLP",
			"parityToMainCurrency": 1.0,
			"unitPrice":            item.UnitPrice,
			"discountPercentage":   0.0,
			"lot":                  nil,
			"archived":             false,
			"costCenter":           nil,
			"traceFrom":            nil,
			"customFields":         map[string]any{},
		}
	}

	var deliveryAddress any
	if order.ShippingAddressID != nil {
		deliveryAddress = map[string]any{"addressId": *order.ShippingAddressID}
	}

	body := map[string]any{
		"customer":               map[string]any{"customerId": order.CustomerID},
		"contact":                nil,
		"salesman":               map[string]any{"salesmanId": order.SellerID},
		"dealer":                 nil,
		"carrier":                nil,
		"priceList":              nil,
		"term":                   map[string]any{"termId": order.PaymentTermID},
		"branch":                 nil,
		"issuedDate":             issued,
		"dueDate":                issued,
		"nullDoc":                false,
		"locked":                 false,
		"approved":               false,
		"approvedBy":             nil,
		"purchaseOrderNumber":    "",
		"deliveryAddress":        deliveryAddress,
		"deliveryDate":           "",
		"deliveryTimeFrame":      "",
		"deliveryCost":           0.0,
		"deliveryNotes":          "",
		"bypassCreditLimit":      false,
		"source":                 nil,
		"sourceOrderId":          "",
		"amountPaid":             0.0,
		"amountPaidCurrencyCode": "CLP",
		"invoiceDocType": map[string]any{
			"docTypeId": 0,
			"name":      "Otros Documentos de Ventas",
		},
		"notes":        orderNotes(order),
		"customFields": map[string]any{},
		"items":        items,
	}

	var result struct {
		SalesOrderID json.Number `json:"salesOrderId"`
	}
	resp, err := g.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/sales/orders")
	if err := parseError(resp, err); err != nil {
		return 0, fmt.Errorf("could not create Laudus order: %w", err)
	}

	id, err := result.SalesOrderID.Int64()
	if err != nil {
		return 0, fmt.Errorf("unexpected Laudus order id %q: %w", result.SalesOrderID, err)
	}
	return id, nil
}

// orderNotes appends the contact info to the free-form comments, the way
// the sales team expects to read it.
func orderNotes(order OrderData) string {
	notes := order.Comments
	if order.Contact == nil {
		return notes
	}

	var parts []string
	if order.Contact.Name != "" {
		parts = append(parts, order.Contact.Name)
	}
	if order.Contact.Phone != "" {
		parts = append(parts, "tel: "+order.Contact.Phone)
	}
	if order.Contact.Email != "" {
		parts = append(parts, "mail: "+order.Contact.Email)
	}
	if len(parts) == 0 {
		return notes
	}

	contact := strings.Join(parts, " ")
	if notes == "" {
		return contact
	}
	return notes + " " + contact
}
