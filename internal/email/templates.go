package email

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderLine is one ordered item as rendered in email.
type OrderLine struct {
	ProductID string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// BuildOrderConfirmationBody builds the HTML body for the order
// confirmation email.
func BuildOrderConfirmationBody(orderID, currency string, total decimal.Decimal, items []OrderLine) string {
	var rows strings.Builder
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = item.ProductID
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		rows.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s %s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s %s</td>
			</tr>`,
			title,
			item.Quantity,
			currency, item.UnitPrice.StringFixed(2),
			currency, lineTotal.StringFixed(2),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Georgia, 'Times New Roman', serif; line-height: 1.6; color: #1a1a1a; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="border-bottom: 2px solid #1a1a1a; padding-bottom: 16px;">
		<h1 style="margin: 0; font-size: 22px; letter-spacing: 2px;">Thank you for your order</h1>
	</div>
	<p>Your order has been received and is awaiting payment confirmation.</p>
	<p style="font-family: monospace; background: #f5f5f5; padding: 10px;">Order %s</p>
	<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
		<thead>
			<tr style="border-bottom: 2px solid #1a1a1a;">
				<th style="padding: 8px; text-align: left;">Artwork</th>
				<th style="padding: 8px; text-align: center;">Qty</th>
				<th style="padding: 8px; text-align: right;">Price</th>
				<th style="padding: 8px; text-align: right;">Total</th>
			</tr>
		</thead>
		<tbody>%s</tbody>
	</table>
	<p style="text-align: right; font-size: 18px;"><strong>Total: %s %s</strong></p>
</body>
</html>`, orderID, rows.String(), currency, total.StringFixed(2))
}

// BuildLowStockAlertBody builds the HTML body for inventory alerts sent
// to the store inbox.
func BuildLowStockAlertBody(productName string, stockQuantity int, outOfStock bool) string {
	headline := "Low stock warning"
	detail := fmt.Sprintf("Only %d left in stock.", stockQuantity)
	if outOfStock {
		headline = "Out of stock"
		detail = "This artwork is no longer available for sale."
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', sans-serif; line-height: 1.6; color: #1a1a1a; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 20px;">%s</h1>
	<p><strong>%s</strong></p>
	<p>%s</p>
	<p>Review the inventory console to restock or deactivate the listing.</p>
</body>
</html>`, headline, productName, detail)
}
