package erp

import (
	"context"
	"fmt"
)

// Customer is the subset of the Laudus customer record the backend cares
// about.
type Customer struct {
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	LegalName  string `json:"legalName"`
	VATId      string `json:"VATId"`
	Address    string `json:"address"`
	City       string `json:"city"`
	County     string `json:"county"`
	State      string `json:"state"`
	Salesman   struct {
		SalesmanID int64  `json:"salesmanId"`
		Name       string `json:"name"`
	} `json:"salesman"`
	Term struct {
		TermID string `json:"termId"`
	} `json:"term"`
}

type Product struct {
	ProductID     int64  `json:"productId"`
	SKU           string `json:"sku"`
	Description   string `json:"description"`
	Discontinued  bool   `json:"discontinued"`
	UnitOfMeasure string `json:"unitOfMeasure"`
}

type Seller struct {
	SalesmanID int64  `json:"salesmanId"`
	Name       string `json:"name"`
}

type StockProduct struct {
	ProductID int64   `json:"productId"`
	SKU       string  `json:"sku"`
	Stock     float64 `json:"stock"`
}

type stockResponse struct {
	Products []StockProduct `json:"products"`
}

func (g *Gateway) GetCustomers(ctx context.Context) ([]Customer, error) {
	fields := []string{
		"customerId", "name", "legalName", "VATId",
		"address", "city", "county", "state",
		"salesman.name", "salesman.salesmanId", "term.termId",
	}
	var customers []Customer
	if err := g.list(ctx, "/sales/customers/list", fields, &customers); err != nil {
		return nil, fmt.Errorf("could not fetch Laudus customers: %w", err)
	}
	return customers, nil
}

func (g *Gateway) GetProducts(ctx context.Context) ([]Product, error) {
	fields := []string{"productId", "sku", "description", "discontinued", "unitOfMeasure"}
	var products []Product
	if err := g.list(ctx, "/production/products/list", fields, &products); err != nil {
		return nil, fmt.Errorf("could not fetch Laudus products: %w", err)
	}
	return products, nil
}

func (g *Gateway) GetSellers(ctx context.Context) ([]Seller, error) {
	fields := []string{"salesmanId", "name"}
	var sellers []Seller
	if err := g.list(ctx, "/sales/salesmen/list", fields, &sellers); err != nil {
		return nil, fmt.Errorf("could not fetch Laudus sellers: %w", err)
	}
	return sellers, nil
}

// GetStock returns per-SKU stock levels for one warehouse.
func (g *Gateway) GetStock(ctx context.Context, warehouseID string) ([]StockProduct, error) {
	if warehouseID == "" {
		warehouseID = "001"
	}
	var out stockResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("warehouseId", warehouseID).
		SetResult(&out).
		Get("/production/products/stock")
	if err := parseError(resp, err); err != nil {
		return nil, fmt.Errorf("could not fetch Laudus stock: %w", err)
	}
	return out.Products, nil
}
