package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/shopspring/decimal"
)

// BuildShipmentBody builds the HTML body for the shipment email
func BuildShipmentBody(s order.ShipperOrder) string {
	var itemsHTML strings.Builder
	for _, item := range s.ItemsSummary {
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
			</tr>`,
			html.EscapeString(item.ProductName),
			item.Quantity,
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #4caf50; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Đơn hàng của bạn đang được giao</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Xin chào %s, đơn hàng đã được chuyển cho đơn vị vận chuyển.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Mã đơn hàng</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
			<p style="margin: 10px 0 0 0; font-size: 14px; color: #666;">Giao đến: %s</p>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Sản phẩm</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Số lượng</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Tổng tiền</span>
			<span style="font-size: 24px; font-weight: bold; color: #4caf50; margin-left: 10px;">%s đ</span>
		</div>
	</div>
</body>
</html>`,
		html.EscapeString(s.RecipientName),
		html.EscapeString(s.OrderID),
		html.EscapeString(s.DeliveryAddress),
		itemsHTML.String(),
		FormatAmount(s.TotalAmount),
	)
}

// BuildCancellationBody builds the HTML body for the cancellation email
func BuildCancellationBody(e order.OrderCancelled) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #f44336; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Đơn hàng đã bị hủy</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Xin chào %s, cửa hàng đã hủy đơn hàng <b style="font-family: monospace;">%s</b>.</p>
		<p style="font-size: 12px; color: #999; margin-bottom: 0;">Email này được gửi tự động.</p>
	</div>
</body>
</html>`,
		html.EscapeString(e.CustomerName),
		html.EscapeString(e.OrderID),
	)
}

// FormatAmount renders a whole-currency amount with dot group separators
func FormatAmount(d decimal.Decimal) string {
	str := d.Round(0).Abs().String()
	sign := ""
	if d.Round(0).IsNegative() {
		sign = "-"
	}
	if len(str) <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		result.WriteString(".")
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(".")
		}
	}

	return result.String()
}
