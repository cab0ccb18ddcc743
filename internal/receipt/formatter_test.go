package receipt

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subhlabh/billing/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReceipt() Receipt {
	return Receipt{
		Shop:     Shop{Name: "Sharma General Store"},
		IssuedAt: time.Date(2026, time.October, 16, 15, 4, 0, 0, time.UTC),
		Lines: []domain.LineItem{
			{Kind: domain.LineItemCatalogProduct, Name: "Basmati Rice", Price: dec("100"), Quantity: dec("2"), Unit: "kg"},
			{Kind: domain.LineItemCustom, Name: "Gift wrap", Price: dec("50"), Quantity: dec("1")},
		},
		PaymentMethod: domain.PaymentMethodCash,
		IsPaid:        true,
		GrandTotal:    dec("250"),
	}
}

func TestFormatCashWalkIn(t *testing.T) {
	got := Format(sampleReceipt())

	want := strings.Join([]string{
		"*Sharma General Store*",
		rule,
		rule,
		"*SALE RECEIPT*",
		"Date: 16 Oct 2026 | 3:04 pm",
		rule,
		"*Items:*",
		"1. Basmati Rice",
		"   2 x ₹100.00 = ₹200.00",
		"2. Gift wrap",
		"   1 x ₹50.00 = ₹50.00",
		rule,
		"*Payment:* Cash",
		"*Status:* Paid",
		rule,
		"*GRAND TOTAL: ₹250.00*",
		rule,
		"Thank You for Shopping!",
		"Computer Generated Bill",
		"Powered by SubhLabh - Shop Management Simplified",
	}, "\n")

	assert.Equal(t, want, got)
	assert.NotContains(t, got, "*Customer:*")
}

func TestFormatCreditCustomerWithNotes(t *testing.T) {
	r := sampleReceipt()
	r.Shop.Address = "12 MG Road, Jaipur"
	r.Shop.Phone = "0141-2222222"
	r.Customer = &domain.CatalogCustomer{ID: 4, Name: "Asha Verma", Phone: "9876543210"}
	r.PaymentMethod = domain.PaymentMethodCredit
	r.IsPaid = false
	r.Lines[0].Quantity = dec("1.25")
	r.GrandTotal = dec("175")
	r.Notes = "  pay by Friday \n"

	got := Format(r)

	assert.Contains(t, got, "Address: 12 MG Road, Jaipur\nPhone: 0141-2222222\n"+rule+"\n*SALE RECEIPT*")
	assert.Contains(t, got, "*Customer:* Asha Verma\nPhone: 9876543210\n"+rule+"\n*Items:*")
	assert.Contains(t, got, "   1.25 x ₹100.00 = ₹125.00\n")
	assert.Contains(t, got, "*Payment:* Credit\n*Status:* Credit/Pending\n")
	assert.Contains(t, got, "*GRAND TOTAL: ₹175.00*\n"+rule+"\npay by Friday\n"+rule+"\nThank You for Shopping!")
}

func TestSectionOrder(t *testing.T) {
	r := sampleReceipt()
	r.Customer = &domain.CatalogCustomer{ID: 1, Name: "Ravi"}
	r.Notes = "thanks"
	got := Format(r)

	markers := []string{"*SALE RECEIPT*", "*Customer:*", "*Items:*", "*Payment:*", "*Status:*", "*GRAND TOTAL", "thanks", "Thank You"}
	last := -1
	for _, m := range markers {
		pos := strings.Index(got, m)
		require.GreaterOrEqual(t, pos, 0, m)
		assert.Greater(t, pos, last, m)
		last = pos
	}
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "Cash", PaymentLabel(domain.PaymentMethodCash))
	assert.Equal(t, "UPI/PhonePe/GPay", PaymentLabel(domain.PaymentMethodUPI))
	assert.Equal(t, "Card", PaymentLabel(domain.PaymentMethodCard))
	assert.Equal(t, "Credit", PaymentLabel(domain.PaymentMethodCredit))
	assert.Equal(t, "Credit", PaymentLabel("cheque"))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"9876543210", "919876543210"},
		{"98765 43210", "919876543210"},
		{"+91 98765-43210", "919876543210"},
		{"12345", "12345"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.raw, "91"), tt.raw)
	}
}

func TestShareLink(t *testing.T) {
	text := "*Shop*\nA & B = ₹10"

	link := ShareLink(text, "919876543210")
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "api.whatsapp.com", u.Host)
	assert.Equal(t, "919876543210", u.Query().Get("phone"))
	assert.Equal(t, text, u.Query().Get("text"))
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "%20")

	generic := ShareLink(text, "12345")
	u, err = url.Parse(generic)
	require.NoError(t, err)
	assert.False(t, u.Query().Has("phone"))
	assert.Equal(t, text, u.Query().Get("text"))
}
