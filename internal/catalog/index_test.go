package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subhlabh/billing/internal/domain"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Products: []domain.CatalogProduct{
			{ID: 1, Name: "Basmati Rice", Price: decimal.RequireFromString("100"), Kind: domain.ProductKindProduct, Unit: "kg", StockQuantity: decimal.RequireFromString("5"), IsActive: true},
			{ID: 2, Name: "Haircut", Price: decimal.RequireFromString("150"), Kind: domain.ProductKindService, IsActive: true},
			{ID: 3, Name: "Brown Rice", Price: decimal.RequireFromString("120"), Kind: domain.ProductKindProduct, Unit: "kg", StockQuantity: decimal.RequireFromString("2"), IsActive: false},
			{ID: 4, Name: "Rice Flour", Price: decimal.RequireFromString("60"), Kind: domain.ProductKindProduct, Unit: "packet", StockQuantity: decimal.RequireFromString("10"), IsActive: true},
		},
		Customers: []domain.CatalogCustomer{
			{ID: 10, Name: "Asha Verma", Phone: "9876543210", Credit: decimal.RequireFromString("250")},
			{ID: 11, Name: "Ravi Kumar", Phone: "9123456780"},
		},
		Offers: []domain.CatalogOffer{
			{ID: 100, Name: "Festive", Type: domain.OfferTypePercentage, DiscountValue: decimal.RequireFromString("10")},
		},
	}
}

func TestFindByID(t *testing.T) {
	idx := NewIndex(testSnapshot())

	p, ok := idx.FindProduct(2)
	require.True(t, ok)
	assert.Equal(t, "Haircut", p.Name)

	_, ok = idx.FindProduct(99)
	assert.False(t, ok)

	c, ok := idx.FindCustomer(11)
	require.True(t, ok)
	assert.Equal(t, "Ravi Kumar", c.Name)

	_, ok = idx.FindCustomer(0)
	assert.False(t, ok)

	o, ok := idx.FindOffer(100)
	require.True(t, ok)
	assert.Equal(t, domain.OfferTypePercentage, o.Type)

	_, ok = idx.FindOffer(7)
	assert.False(t, ok)
}

func TestSearchProducts(t *testing.T) {
	idx := NewIndex(testSnapshot())

	t.Run("case-insensitive, active only, catalog order", func(t *testing.T) {
		matches := idx.SearchProducts("RICE")
		require.Len(t, matches, 2)
		assert.Equal(t, int64(1), matches[0].ID)
		assert.Equal(t, int64(4), matches[1].ID)
	})

	t.Run("empty term matches nothing", func(t *testing.T) {
		assert.Empty(t, idx.SearchProducts(""))
		assert.Empty(t, idx.SearchProducts("   "))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, idx.SearchProducts("soap"))
	})
}

func TestSearchCustomers(t *testing.T) {
	idx := NewIndex(testSnapshot())

	t.Run("empty term returns walk-in only", func(t *testing.T) {
		results := idx.SearchCustomers("")
		require.Len(t, results, 1)
		assert.True(t, results[0].IsWalkIn())
	})

	t.Run("matches name", func(t *testing.T) {
		results := idx.SearchCustomers("asha")
		require.Len(t, results, 2)
		assert.True(t, results[0].IsWalkIn())
		assert.Equal(t, int64(10), results[1].ID)
	})

	t.Run("matches phone", func(t *testing.T) {
		results := idx.SearchCustomers("91234")
		require.Len(t, results, 2)
		assert.Equal(t, int64(11), results[1].ID)
	})

	t.Run("no match still offers walk-in", func(t *testing.T) {
		results := idx.SearchCustomers("zzz")
		require.Len(t, results, 1)
		assert.True(t, results[0].IsWalkIn())
	})
}

func TestApplyStockDelta(t *testing.T) {
	idx := NewIndex(testSnapshot())

	idx.ApplyStockDelta(1, decimal.RequireFromString("1.5"))
	p, _ := idx.FindProduct(1)
	assert.Equal(t, "3.5", p.StockQuantity.String())

	idx.ApplyStockDelta(2, decimal.RequireFromString("1"))
	s, _ := idx.FindProduct(2)
	assert.True(t, s.StockQuantity.IsZero())

	idx.ApplyStockDelta(404, decimal.RequireFromString("1"))
}

func TestAddCustomer(t *testing.T) {
	idx := NewIndex(testSnapshot())

	idx.AddCustomer(domain.CatalogCustomer{ID: 12, Name: "Meena", Phone: "9000000001"})

	c, ok := idx.FindCustomer(12)
	require.True(t, ok)
	assert.Equal(t, "Meena", c.Name)
	assert.Len(t, idx.SearchCustomers("meena"), 2)
}

func TestDecodeSnapshot(t *testing.T) {
	payload := `{
		"products": [
			{"id": 1, "name": "Sugar", "price": "45.50", "unit": "kg", "stock_quantity": "12.00", "is_active": true, "product_type": "product"},
			{"id": 2, "name": "Tailoring", "price": "200.00", "unit": "", "stock_quantity": "0.00", "is_active": true, "product_type": "service"}
		],
		"customers": [
			{"id": 5, "name": "Asha", "phone": "9876543210", "udhar_amount": "120.00"},
			{"id": 6, "name": "Ravi", "phone": "9123456780", "credit_amount": "0.00"}
		],
		"offers": [
			{"id": 9, "name": "Diwali", "type": "percentage", "discount_value": "10.00", "min_purchase_amount": "500.00", "max_discount_amount": "100.00", "buy_quantity": 0, "get_quantity": 0},
			{"id": 10, "name": "B2G1", "type": "bogo", "discount_value": "0.00", "min_purchase_amount": "0.00", "buy_quantity": 2, "get_quantity": 1}
		]
	}`

	snap, err := DecodeSnapshot(strings.NewReader(payload))
	require.NoError(t, err)

	require.Len(t, snap.Products, 2)
	assert.Equal(t, "45.5", snap.Products[0].Price.String())
	assert.Equal(t, domain.ProductKindService, snap.Products[1].Kind)

	require.Len(t, snap.Customers, 2)
	assert.Equal(t, "120", snap.Customers[0].Credit.String())
	assert.True(t, snap.Customers[1].Credit.IsZero())

	require.Len(t, snap.Offers, 2)
	assert.True(t, snap.Offers[0].MaxDiscountAmount.Valid)
	assert.Equal(t, "100", snap.Offers[0].MaxDiscountAmount.Decimal.String())
	assert.False(t, snap.Offers[1].MaxDiscountAmount.Valid)
	assert.Equal(t, 2, snap.Offers[1].BuyQuantity)
}

func TestDecodeSnapshotRejectsUnknownOfferType(t *testing.T) {
	_, err := DecodeSnapshot(strings.NewReader(`{"offers": [{"id": 1, "name": "x", "type": "mystery"}]}`))
	assert.Error(t, err)
}
