package draft

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/braseiro-pdv/api/internal/money"
)

// ExportText renders the cart for the clipboard/copy action: one line per
// item as "{name} x{quantity} - {formatted currency}", newline-joined.
func (s Snapshot) ExportText() string {
	lines := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = fmt.Sprintf("%s x%d - %s", l.Name, l.Quantity, money.FormatBRL(l.Total()))
	}
	return strings.Join(lines, "\n")
}

type exportItem struct {
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
	Total    string `json:"total"`
}

type exportPayload struct {
	OrderType     string       `json:"order_type"`
	Items         []exportItem `json:"items"`
	Subtotal      string       `json:"subtotal"`
	DiscountTotal string       `json:"discount_total"`
	ServiceTotal  string       `json:"service_total"`
	DeliveryFee   string       `json:"delivery_fee"`
	Total         string       `json:"total"`
}

// ExportJSON renders the cart and totals as a stable JSON document for the
// export action. Amounts are fixed to two decimal places.
func (s Snapshot) ExportJSON() ([]byte, error) {
	payload := exportPayload{
		OrderType:     s.OrderType,
		Items:         make([]exportItem, len(s.Lines)),
		Subtotal:      s.Totals.Subtotal.StringFixed(2),
		DiscountTotal: s.Totals.DiscountTotal.StringFixed(2),
		ServiceTotal:  s.Totals.ServiceTotal.StringFixed(2),
		DeliveryFee:   s.Totals.DeliveryFee.StringFixed(2),
		Total:         s.Totals.Total.StringFixed(2),
	}
	for i, l := range s.Lines {
		payload.Items[i] = exportItem{
			Name:     l.Name,
			Quantity: l.Quantity,
			Total:    l.Total().StringFixed(2),
		}
	}
	return json.Marshal(payload)
}
