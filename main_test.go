package main

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestOpenStores(t *testing.T) {
	st, err := openStores("memory", "")
	require.NoError(t, err)
	require.NotNil(t, st.products)
	require.NotNil(t, st.carts)
	require.NotNil(t, st.orders)
	require.NotNil(t, st.users)

	_, err = openStores("oracle", "")
	assert.Error(t, err)
}

func TestBuildAppRouting(t *testing.T) {
	st, err := openStores("memory", "")
	require.NoError(t, err)
	app, authService := buildApp(st, nil, "test_jwt_secret")
	require.NotNil(t, authService)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Catalog reads are public, the cart is not.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestSeedProductsIsIdempotent(t *testing.T) {
	st, err := openStores("memory", "")
	require.NoError(t, err)

	seedProducts(st.products)
	first, err := st.products.GetAll()
	require.NoError(t, err)
	require.Len(t, first, 3)

	seedProducts(st.products)
	second, err := st.products.GetAll()
	require.NoError(t, err)
	assert.Len(t, second, 3)
}
