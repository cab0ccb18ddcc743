package receipt

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/subhlabh/billing/internal/domain"
)

const (
	rule        = "━━━━━━━━━━━━━━━━━━━━"
	dateLayout  = "2 Jan 2006"
	timeLayout  = "3:04 pm"
	shareURL    = "https://api.whatsapp.com/send"
	attribution = "Powered by SubhLabh - Shop Management Simplified"
)

// Shop identifies the shop printed in the receipt header
type Shop struct {
	Name    string
	Address string
	Phone   string
}

// Receipt is everything needed to render a confirmed sale
type Receipt struct {
	Shop          Shop
	IssuedAt      time.Time
	Customer      *domain.CatalogCustomer
	Lines         []domain.LineItem
	PaymentMethod domain.PaymentMethod
	IsPaid        bool
	GrandTotal    decimal.Decimal
	Notes         string
}

// Format renders a receipt as plain text for sharing. The output is not URL-encoded.
func Format(r Receipt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", r.Shop.Name)
	b.WriteString(rule + "\n")
	if r.Shop.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", r.Shop.Address)
	}
	if r.Shop.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", r.Shop.Phone)
	}
	b.WriteString(rule + "\n")
	b.WriteString("*SALE RECEIPT*\n")
	fmt.Fprintf(&b, "Date: %s | %s\n", r.IssuedAt.Format(dateLayout), r.IssuedAt.Format(timeLayout))
	b.WriteString(rule + "\n")

	if r.Customer != nil && r.Customer.Name != "" {
		fmt.Fprintf(&b, "*Customer:* %s\n", r.Customer.Name)
		if r.Customer.Phone != "" {
			fmt.Fprintf(&b, "Phone: %s\n", r.Customer.Phone)
		}
		b.WriteString(rule + "\n")
	}

	b.WriteString("*Items:*\n")
	for i, item := range r.Lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Name)
		fmt.Fprintf(&b, "   %s x ₹%s = ₹%s\n",
			item.Quantity.String(), item.Price.StringFixed(2), item.Total().StringFixed(2))
	}
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "*Payment:* %s\n", PaymentLabel(r.PaymentMethod))
	if r.IsPaid {
		b.WriteString("*Status:* Paid\n")
	} else {
		b.WriteString("*Status:* Credit/Pending\n")
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "*GRAND TOTAL: ₹%s*\n", r.GrandTotal.StringFixed(2))
	b.WriteString(rule + "\n")

	if notes := strings.TrimSpace(r.Notes); notes != "" {
		b.WriteString(notes + "\n")
		b.WriteString(rule + "\n")
	}

	b.WriteString("Thank You for Shopping!\n")
	b.WriteString("Computer Generated Bill\n")
	b.WriteString(attribution)

	return b.String()
}

// PaymentLabel is the customer-facing name of a payment method
func PaymentLabel(method domain.PaymentMethod) string {
	switch method {
	case domain.PaymentMethodCash:
		return "Cash"
	case domain.PaymentMethodUPI:
		return "UPI/PhonePe/GPay"
	case domain.PaymentMethodCard:
		return "Card"
	default:
		return "Credit"
	}
}

// NormalizePhone strips everything but digits and prefixes countryCode to
// 10-digit domestic numbers. Other lengths pass through unvalidated.
func NormalizePhone(raw, countryCode string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	if len(digits) == 10 {
		return countryCode + digits
	}
	return digits
}

// ShareLink builds the messaging deep link for a receipt. phone should already be
// normalized; it is left out when shorter than 10 digits so the sender picks a contact.
func ShareLink(text, phone string) string {
	// Percent-encode spaces as %20 rather than '+'.
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	if len(phone) >= 10 {
		return fmt.Sprintf("%s?phone=%s&text=%s", shareURL, phone, encoded)
	}
	return fmt.Sprintf("%s?text=%s", shareURL, encoded)
}
