package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/icevibe/pos-terminal/pkg/config"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)
	return client, srv
}

func TestActiveProductsBareArray(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/productos/activos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"nombre":"Cerveza","precio":8000,"stock":24,"categoria":"CERVEZAS"}]`))
	}))

	products, err := client.ActiveProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Cerveza", products[0].Name)
	require.True(t, products[0].Price.Equal(decimal.NewFromInt(8000)))
}

func TestActiveProductsEnvelope(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"id":2,"nombre":"Shot","precio":5000,"stock":10,"categoria":"SHOTS"}]}`))
	}))

	products, err := client.ActiveProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, int64(2), products[0].ID)
}

func TestActiveProductsMalformedPayloadIsDecodeError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"whatever":true}`))
	}))

	_, err := client.ActiveProducts(context.Background())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDecode, typed.Code())
}

func TestCreateSaleSuccess(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ventas", r.URL.Path)
		w.Write([]byte(`{"success":true,"id":41}`))
	}))

	id, err := client.CreateSale(context.Background(), SalePayload{TableNumber: "5"})
	require.NoError(t, err)
	require.Equal(t, int64(41), id)
}

func TestCreateSaleRejectionIsSubmissionError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"stock insuficiente"}`))
	}))

	_, err := client.CreateSale(context.Background(), SalePayload{TableNumber: "5"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeSubmission, typed.Code())
	require.Equal(t, "stock insuficiente", typed.Message())
}

func TestCreateSaleMissingIDIsDecodeError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))

	_, err := client.CreateSale(context.Background(), SalePayload{TableNumber: "1"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDecode, typed.Code())
}

func TestLoginNestedUser(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"usuario":{"id":3,"codigo":"V-03","nombre":"Laura","rol":"VENDEDOR"}}`))
	}))

	user, err := client.Login(context.Background(), "V-03", "secret")
	require.NoError(t, err)
	require.Equal(t, int64(3), user.ID)
	require.Equal(t, "VENDEDOR", user.Role)
}

func TestLoginFlatUser(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":9,"codigo":"A-01","nombre":"Dani","rol":"ADMIN"}`))
	}))

	user, err := client.Login(context.Background(), "A-01", "secret")
	require.NoError(t, err)
	require.Equal(t, "ADMIN", user.Role)
}

func TestLoginRejectedCredentials(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Credenciales inválidas"}`))
	}))

	_, err := client.Login(context.Background(), "V-03", "wrong")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestSaleDetail(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ventas/12", r.URL.Path)
		w.Write([]byte(`{"success":true,"venta":{"id":12,"numeroMesa":"4","total":23000,"fechaVenta":"2025-06-01T20:15:00Z"},"detalles":[{"productoId":1,"productoNombre":"Cerveza","cantidad":2,"precioUnitario":10000,"subtotal":20000,"notas":"fría"}]}`))
	}))

	detail, err := client.SaleDetail(context.Background(), 12)
	require.NoError(t, err)
	require.Equal(t, int64(12), detail.Sale.ID)
	require.Len(t, detail.Lines, 1)
	require.Equal(t, 2, detail.Lines[0].Quantity)
}

func TestServerErrorMapsToDependency(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"success":false,"message":"boom"}`, http.StatusInternalServerError)
	}))

	_, err := client.Sales(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestTimeoutSurfacesDependencyError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = client.Sales(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
