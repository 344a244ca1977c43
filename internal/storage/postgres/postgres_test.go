//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ixoye/storefront/internal/domain/catalog"
	"github.com/ixoye/storefront/internal/domain/checkout"
	"github.com/ixoye/storefront/internal/domain/quote"
	"github.com/ixoye/storefront/internal/storage/postgres"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "storefront",
				"POSTGRES_PASSWORD": "storefront",
				"POSTGRES_DB":       "storefront",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://storefront:storefront@%s:%s/storefront?sslmode=disable",
		host, port.Port())
}

func TestPostgresStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	url := startPostgres(t)

	pool, err := postgres.NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.RunMigrations(ctx, pool))
	// Migrations are idempotent.
	require.NoError(t, postgres.RunMigrations(ctx, pool))

	repo := postgres.NewCatalogRepository(pool)

	t.Run("upsert and resolve", func(t *testing.T) {
		p := catalog.Product{
			ID:          "pan",
			SKU:         "PAN-01",
			Title:       "Pan integral",
			Price:       decimal.RequireFromString("2200"),
			Image:       "pan.jpg",
			PaymentLink: "https://mpago.la/abc123",
		}
		require.NoError(t, repo.Upsert(ctx, p))

		got, err := repo.Resolve(ctx, "pan")
		require.NoError(t, err)
		assert.Equal(t, "Pan integral", got.Title)
		assert.True(t, p.Price.Equal(got.Price))
		assert.Equal(t, "https://mpago.la/abc123", got.PaymentLink)
	})

	t.Run("upsert refreshes existing row", func(t *testing.T) {
		p := catalog.Product{
			ID:    "pan",
			SKU:   "PAN-01",
			Title: "Pan integral grande",
			Price: decimal.RequireFromString("2500"),
		}
		require.NoError(t, repo.Upsert(ctx, p))

		got, err := repo.Resolve(ctx, "pan")
		require.NoError(t, err)
		assert.Equal(t, "Pan integral grande", got.Title)
		assert.True(t, decimal.RequireFromString("2500").Equal(got.Price))
	})

	t.Run("resolve unknown product", func(t *testing.T) {
		_, err := repo.Resolve(ctx, "ghost")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("list ordered by id", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, catalog.Product{
			ID: "miel", SKU: "miel", Title: "Miel", Price: decimal.RequireFromString("3500"),
		}))

		products, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "miel", products[0].ID)
		assert.Equal(t, "pan", products[1].ID)
	})

	t.Run("record order", func(t *testing.T) {
		archive := postgres.NewOrderArchive(pool)

		o := &checkout.Order{
			ID: "ord-1",
			Buyer: checkout.Buyer{
				Name:    "Ana García",
				Phone:   "1155550000",
				Address: "Av. Siempreviva 742",
				City:    "Mar del Plata",
			},
			Summary: &quote.Summary{
				Lines: []quote.SummaryLine{
					{
						Product:   catalog.Product{ID: "pan", Title: "Pan integral"},
						Quantity:  2,
						LineTotal: decimal.RequireFromString("4400"),
					},
				},
				Subtotal:      decimal.RequireFromString("4400"),
				ShippingCost:  decimal.RequireFromString("800"),
				ShippingLabel: "$ 800",
				Discount:      decimal.Zero,
				Total:         decimal.RequireFromString("5200"),
				Delivery:      quote.DeliveryShipping,
				PaymentMethod: "Transferencia",
			},
			Message:   "*Pedido Ixoye*",
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, archive.Record(ctx, o))

		var (
			buyerName string
			address   string
			total     decimal.Decimal
		)
		err := pool.QueryRow(ctx,
			`SELECT buyer_name, buyer_address, total FROM orders WHERE id = $1`, "ord-1",
		).Scan(&buyerName, &address, &total)
		require.NoError(t, err)
		assert.Equal(t, "Ana García", buyerName)
		assert.Equal(t, "Av. Siempreviva 742, Mar del Plata", address)
		assert.True(t, decimal.RequireFromString("5200").Equal(total))
	})
}
