package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ixoye/storefront/internal/domain/cart"
	"github.com/ixoye/storefront/internal/domain/catalog"
	"github.com/ixoye/storefront/internal/domain/checkout"
	"github.com/ixoye/storefront/internal/domain/quote"
	"github.com/ixoye/storefront/internal/storage/memory"
	"github.com/ixoye/storefront/internal/whatsapp"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	cat := memory.NewCatalog([]catalog.Product{
		{ID: "pan", SKU: "pan", Title: "Pan integral", Price: decimal.NewFromInt(2200)},
		{ID: "miel", SKU: "miel", Title: "Miel pura", Price: decimal.NewFromInt(3500)},
	})
	carts := memory.NewCartStore(0)

	cartSvc := cart.NewService(carts, cat)
	quotes := quote.NewBuilder(quote.DefaultPricing(), cat)
	formatter := whatsapp.NewFormatter(whatsapp.Config{StoreName: "Ixoye", Phone: "5492235551421"})
	checkoutSvc := checkout.NewService(carts, quotes, formatter, nil)

	return NewHandler(cat, cartSvc, quotes, checkoutSvc).Routes()
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func createTestCart(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/carts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeJSON[cartResponse](t, rec)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestListProducts(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	products := decodeJSON[[]productResponse](t, rec)
	require.Len(t, products, 2)
	assert.Equal(t, "pan", products[0].ID)
	assert.Equal(t, 2200.0, products[0].Price)
}

func TestCreateCart(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/carts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeJSON[cartResponse](t, rec)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.Items)
}

func TestGetCart_NotFound(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/carts/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeJSON[errorBody](t, rec)
	assert.Equal(t, http.StatusNotFound, body.Code)
	assert.Equal(t, "cart not found", body.Message)
}

func TestAddItem(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	rec := doJSON(t, h, http.MethodPost, "/carts/"+id+"/items",
		addItemRequest{ProductID: "pan", Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[cartResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "pan", resp.Items[0].ProductID)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, 2, resp.TotalUnits)
}

func TestAddItem_ZeroQuantityAddsOne(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	rec := doJSON(t, h, http.MethodPost, "/carts/"+id+"/items",
		addItemRequest{ProductID: "pan"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[cartResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Quantity)
}

func TestAddItem_UnknownProductLeavesCartUnchanged(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	rec := doJSON(t, h, http.MethodPost, "/carts/"+id+"/items",
		addItemRequest{ProductID: "ghost", Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[cartResponse](t, rec)
	assert.Empty(t, resp.Items)
}

func TestAddItem_MissingProductID(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	rec := doJSON(t, h, http.MethodPost, "/carts/"+id+"/items", addItemRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_MalformedBody(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	req := httptest.NewRequest(http.MethodPost, "/carts/"+id+"/items",
		bytes.NewReader([]byte(`{"productId":`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeJSON[errorBody](t, rec)
	assert.Equal(t, "malformed request body", body.Message)
}

func TestSetItemQuantity(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	doJSON(t, h, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: "pan", Quantity: 1})

	rec := doJSON(t, h, http.MethodPut, "/carts/"+id+"/items/pan", setQuantityRequest{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[cartResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
}

func TestSetItemQuantity_ZeroRemovesLine(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	doJSON(t, h, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: "pan", Quantity: 2})

	rec := doJSON(t, h, http.MethodPut, "/carts/"+id+"/items/pan", setQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[cartResponse](t, rec)
	assert.Empty(t, resp.Items)
}

func TestRemoveItemAndClearCart(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	doJSON(t, h, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: "pan", Quantity: 1})
	doJSON(t, h, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: "miel", Quantity: 1})

	rec := doJSON(t, h, http.MethodDelete, "/carts/"+id+"/items/pan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[cartResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "miel", resp.Items[0].ProductID)

	rec = doJSON(t, h, http.MethodDelete, "/carts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeJSON[cartResponse](t, rec)
	assert.Empty(t, resp.Items)
}

func TestGetQuote(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	doJSON(t, h, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: "pan", Quantity: 2})

	rec := doJSON(t, h, http.MethodGet, "/carts/"+id+"/quote?delivery=envio&payment=Efectivo", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[quoteResponse](t, rec)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 4400.0, resp.Subtotal)
	assert.Equal(t, 800.0, resp.ShippingCost)
	assert.Equal(t, 440.0, resp.Discount)
	assert.Equal(t, 4760.0, resp.Total)
	assert.Equal(t, "envio", resp.Delivery)
}

func TestGetQuote_Pickup(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	doJSON(t, h, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: "pan", Quantity: 1})

	rec := doJSON(t, h, http.MethodGet, "/carts/"+id+"/quote?delivery=retiro", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[quoteResponse](t, rec)
	assert.Equal(t, 0.0, resp.ShippingCost)
	assert.Equal(t, "Retiro", resp.ShippingLabel)
}

func TestCheckout(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	doJSON(t, h, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: "pan", Quantity: 2})

	rec := doJSON(t, h, http.MethodPost, "/carts/"+id+"/checkout", checkoutRequest{
		Buyer:         buyerRequest{Name: "Ana", Phone: "1155550000"},
		Delivery:      "envio",
		PaymentMethod: "Transferencia",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeJSON[checkoutResponse](t, rec)
	assert.NotEmpty(t, resp.OrderID)
	assert.Contains(t, resp.Message, "*Pedido Ixoye*")
	assert.Contains(t, resp.WhatsappURL, "https://wa.me/5492235551421?text=")
	assert.Equal(t, 5200.0, resp.Summary.Total)

	// The cart survives checkout.
	cartRec := doJSON(t, h, http.MethodGet, "/carts/"+id, nil)
	require.Equal(t, http.StatusOK, cartRec.Code)
	cartResp := decodeJSON[cartResponse](t, cartRec)
	assert.Len(t, cartResp.Items, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	rec := doJSON(t, h, http.MethodPost, "/carts/"+id+"/checkout", checkoutRequest{
		Buyer: buyerRequest{Name: "Ana", Phone: "1155550000"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeJSON[errorBody](t, rec)
	assert.Equal(t, "cart is empty", body.Message)
}

func TestCheckout_MissingBuyerFields(t *testing.T) {
	h := newTestAPI(t)
	id := createTestCart(t, h)

	doJSON(t, h, http.MethodPost, "/carts/"+id+"/items", addItemRequest{ProductID: "pan", Quantity: 1})

	rec := doJSON(t, h, http.MethodPost, "/carts/"+id+"/checkout", checkoutRequest{
		Buyer: buyerRequest{Phone: "1155550000"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/carts/"+id+"/checkout", checkoutRequest{
		Buyer: buyerRequest{Name: "Ana"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCheckout_UnknownCart(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/carts/nope/checkout", checkoutRequest{
		Buyer: buyerRequest{Name: "Ana", Phone: "1155550000"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
