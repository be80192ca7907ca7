// Package order builds the pre-filled chat message that hands an order off to the shop owner.
package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultChatBaseURL is the shop owner's chat.
const DefaultChatBaseURL = "https://t.me/Samphors_Pheng"

// Message is the content of an order hand-off.
type Message struct {
	ProductName       string
	Price             decimal.Decimal
	Quantity          int
	CustomText        string
	ProductImageURL   string
	ReferenceImageURL string
}

// Text renders the human-readable message.
func (m Message) Text() string {
	var b strings.Builder
	b.WriteString("Hi! I'd like to order a custom keychain:\n\n")
	fmt.Fprintf(&b, "Product: %s\n", m.ProductName)
	fmt.Fprintf(&b, "Price: %s\n", FormatPrice(m.Price))
	fmt.Fprintf(&b, "Quantity: %d\n", m.Quantity)
	fmt.Fprintf(&b, "Custom Text: %s\n", m.CustomText)
	fmt.Fprintf(&b, "\nProduct Image: %s", m.ProductImageURL)
	if m.ReferenceImageURL != "" {
		fmt.Fprintf(&b, "\n\nReference Image: %s", m.ReferenceImageURL)
	}
	return b.String()
}

// FormatPrice renders a price as dollars with two decimals.
func FormatPrice(p decimal.Decimal) string {
	return "$" + p.StringFixed(2)
}

// componentEscaper turns url.QueryEscape output into the encoding browsers
// produce with encodeURIComponent: spaces as %20 and !'()* left literal.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// ChatLink is base?text=<message>, percent-encoded like encodeURIComponent.
func ChatLink(base string, m Message) string {
	if base == "" {
		base = DefaultChatBaseURL
	}
	return base + "?text=" + componentEscaper.Replace(url.QueryEscape(m.Text()))
}
