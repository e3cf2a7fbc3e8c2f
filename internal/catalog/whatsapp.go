package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderLine is one resolved cart line for the WhatsApp checkout.
type OrderLine struct {
	Codigo   string
	Nombre   string
	Cantidad int
	Precio   decimal.Decimal
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}

// BuildOrderMessage renders the storefront cart as the plain-text message
// the shop receives on WhatsApp.
func BuildOrderMessage(nombre string, lines []OrderLine) string {
	var b strings.Builder

	b.WriteString("¡Hola! Quiero hacer un pedido:\n")
	total := decimal.Zero
	for _, l := range lines {
		sub := l.Subtotal()
		total = total.Add(sub)
		fmt.Fprintf(&b, "- %dx %s (%s) — $%s\n", l.Cantidad, l.Nombre, l.Codigo, sub.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: $%s\n", total.StringFixed(2))
	if nombre = strings.TrimSpace(nombre); nombre != "" {
		fmt.Fprintf(&b, "Mi nombre: %s\n", nombre)
	}

	return b.String()
}

// BuildWhatsAppLink returns the wa.me deep link with the message prefilled.
func BuildWhatsAppLink(phone, message string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(message)
}
