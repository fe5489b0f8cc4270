package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"localledger/internal/domain"
	"localledger/internal/services"
)

// Formatter renders every domain result and every error class as reply text.
// It is total: nothing reaches the gateway unrendered.
type Formatter struct {
	Currency string
}

func NewFormatter(currency string) *Formatter {
	if currency == "" {
		currency = "₹"
	}
	return &Formatter{Currency: currency}
}

func (f *Formatter) money(d decimal.Decimal) string {
	return f.Currency + d.StringFixed(2)
}

func (f *Formatter) Help() string {
	return "📱 *LocalLedger Help*\n\n" +
		"1️⃣ *Inventory*\n" +
		"   • l - list products\n" +
		"   • low - low stock items\n" +
		"   • add new -m - add products manually\n" +
		"   • add new -b - add products via barcode\n" +
		"   • change price -m / -b - change a price\n\n" +
		"2️⃣ *Orders*\n" +
		"   • order -m / -b - record a sale\n\n" +
		"3️⃣ *Credit*\n" +
		"   • creditors - list creditors\n" +
		"   • add creditor / del creditor\n" +
		"   • pay <name> <amount> - record a payment\n" +
		"   • get cred amount <name>\n" +
		"   • get total cred\n\n" +
		"4️⃣ *Reports*\n" +
		"   • daily / weekly - sales reports\n" +
		"   • t <numbers...> - quick total\n\n" +
		"5️⃣ *Voice*\n" +
		"   • add -v - speak your next command\n\n" +
		"Send 'cancel' any time to abort a flow."
}

func (f *Formatter) Unknown(raw string) string {
	return fmt.Sprintf("❌ Unknown command: %q. Type 'help' to see available commands.", raw)
}

func (f *Formatter) Cancelled() string     { return "🚫 Cancelled." }
func (f *Formatter) EmptyMessage() string  { return "❌ Empty message." }
func (f *Formatter) NoSender() string      { return "❌ Could not determine sender." }
func (f *Formatter) DuplicateDelivery() string {
	return "🔁 That message was already processed."
}
func (f *Formatter) VoiceFailed() string {
	return "❌ Could not process voice message. Please try again or type your command."
}
func (f *Formatter) BarcodeFailed() string {
	return "❌ Could not read the barcode. Please send a clearer photo."
}
func (f *Formatter) UnexpectedImage() string {
	return "❌ I wasn't expecting an image. Start with 'add new -b', 'change price -b' or 'order -b' first."
}

// Reprompt keeps the user on the same step after invalid input.
func (f *Formatter) Reprompt(hint string) string {
	return "❌ " + hint + "\nSend 'cancel' to abort."
}

// Err maps any error to a user-facing reply.
func (f *Formatter) Err(err error) string {
	var unknown *UnknownCommandError
	switch {
	case errors.As(err, &unknown):
		return f.Unknown(unknown.Input)
	case errors.Is(err, domain.ErrProductNotFound):
		return "❌ Product not found."
	case errors.Is(err, domain.ErrCreditorNotFound):
		return "❌ Creditor not found."
	case errors.Is(err, domain.ErrInsufficientStock):
		return "❌ Not enough stock: " + trimPrefixError(err, domain.ErrInsufficientStock)
	case errors.Is(err, domain.ErrOverpayment):
		return "❌ Payment exceeds the outstanding balance. Nothing was applied."
	case errors.Is(err, domain.ErrInvalidAmount):
		return "❌ Invalid amount."
	case errors.Is(err, domain.ErrDuplicateProduct):
		return "⚠️ That product already exists."
	case errors.Is(err, domain.ErrDuplicateCreditor):
		return "⚠️ That creditor already exists."
	case errors.Is(err, domain.ErrEmptyOrder):
		return "❌ No items in the order."
	default:
		return "❌ Something went wrong. Please try again."
	}
}

func trimPrefixError(err error, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	return strings.TrimLeft(msg, ": ")
}

func (f *Formatter) ProductList(products []domain.Product) string {
	if len(products) == 0 {
		return "No products found."
	}
	var b strings.Builder
	b.WriteString("📦 *Products*\n\n")
	for _, p := range products {
		mark := "✅"
		if p.LowOnStock() {
			mark = "⚠️"
		}
		fmt.Fprintf(&b, "%s %s - %s (stock: %d)\n", mark, p.Name, f.money(p.Price), p.Stock)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) LowStockList(products []domain.Product) string {
	if len(products) == 0 {
		return "No products are low on stock."
	}
	var b strings.Builder
	b.WriteString("⚠️ *Low Stock*\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "• %s: %d left (threshold %d)\n", p.Name, p.Stock, p.MinQuantity)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) CreditorList(creditors []domain.Creditor) string {
	if len(creditors) == 0 {
		return "No creditors found."
	}
	var b strings.Builder
	b.WriteString("💳 *Creditors*\n\n")
	for _, c := range creditors {
		fmt.Fprintf(&b, "• %s (%s): %s\n", c.Name, c.Phone, f.money(c.Balance))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) TotalCredit(total decimal.Decimal) string {
	return "💰 Total outstanding credit: " + f.money(total)
}

func (f *Formatter) CreditAmount(c domain.Creditor) string {
	return fmt.Sprintf("💰 %s owes %s.", c.Name, f.money(c.Balance))
}

func (f *Formatter) CreditorAdded(c domain.Creditor) string {
	return fmt.Sprintf("✅ Creditor added: %s (%s), balance %s.", c.Name, c.Phone, f.money(c.Balance))
}

func (f *Formatter) CreditorDeleted(c domain.Creditor) string {
	return "✅ Creditor deleted: " + c.Name + "."
}

func (f *Formatter) PaymentApplied(c domain.Creditor, amount decimal.Decimal) string {
	return fmt.Sprintf("✅ Payment of %s recorded for %s. New balance: %s.",
		f.money(amount), c.Name, f.money(c.Balance))
}

func (f *Formatter) ProductAdded(p domain.Product) string {
	return fmt.Sprintf("✅ Added %s: price %s, stock %d.\n\nSend the next product name or 'end' to finish.",
		p.Name, f.money(p.Price), p.Stock)
}

func (f *Formatter) BarcodeProductAdded(p domain.Product) string {
	return fmt.Sprintf("✅ Added %s (barcode %s): price %s, stock %d.\n\nSend the next barcode image or 'end' to finish.",
		p.Name, p.Barcode, f.money(p.Price), p.Stock)
}

func (f *Formatter) ManualAddDone(n int) string {
	if n == 0 {
		return "Session ended. No products added."
	}
	return fmt.Sprintf("✅ Session ended. Added %d product(s).", n)
}

func (f *Formatter) PriceChanged(p domain.Product) string {
	return fmt.Sprintf("✅ Price updated: %s is now %s.", p.Name, f.money(p.Price))
}

func (f *Formatter) BarcodeScanned(code string) string {
	return fmt.Sprintf("📷 Scanned barcode %s.\nSend quantity and price:\nqty price", code)
}

func (f *Formatter) BarcodePriceScanned(name string) string {
	return fmt.Sprintf("📷 Found %s. Send the new price.", name)
}

func (f *Formatter) OrderItemQueued(name string, qty int) string {
	return fmt.Sprintf("✅ %d x %s queued. Send more items, 'credit' to book on credit, or 'done'.", qty, name)
}

func (f *Formatter) OrderItemScanned(name string) string {
	return fmt.Sprintf("📷 Found %s. Send the quantity.", name)
}

func (f *Formatter) OrderOnCredit() string {
	return "💳 This sale will be booked on credit. Send items or 'done'."
}

func (f *Formatter) OrderPlaced(res services.OrderResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Order recorded: %d item(s), total %s.", res.Items, f.money(res.Total))
	if res.Creditor != nil {
		fmt.Fprintf(&b, "\n💳 Booked on credit for %s. New balance: %s.",
			res.Creditor.Name, f.money(res.Creditor.Balance))
	}
	for _, p := range res.LowStock {
		fmt.Fprintf(&b, "\n⚠️ Low stock: %s has %d left (threshold %d).", p.Name, p.Stock, p.MinQuantity)
	}
	return b.String()
}

func (f *Formatter) Report(title string, r domain.SalesReport) string {
	if r.Orders == 0 {
		return fmt.Sprintf("No sales recorded for the %s report (%s).", strings.ToLower(title), r.From)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *%s Report (%s - %s)*\n\n", title, r.From, r.To)
	fmt.Fprintf(&b, "Total Sales: %s\nOrders: %d\n", f.money(r.Total), r.Orders)
	if len(r.Days) > 1 {
		b.WriteString("\nDaily breakdown:\n")
		for _, d := range r.Days {
			fmt.Fprintf(&b, "• %s: %s (%d orders)\n", d.Day, f.money(d.Total), d.Orders)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) QuickTotal(total decimal.Decimal) string {
	return "🧮 Total: " + f.money(total)
}

func (f *Formatter) TotalSales(total decimal.Decimal) string {
	return "💰 Total sales: " + f.money(total)
}

// Prompts for multi-step flows.

func (f *Formatter) PromptProductName() string {
	return "📝 Send the product name (or 'end' to finish)."
}
func (f *Formatter) PromptPrice(name string) string {
	return fmt.Sprintf("📝 Send the price for %s.", name)
}
func (f *Formatter) PromptQty(name string) string {
	return fmt.Sprintf("📝 Send the opening stock quantity for %s.", name)
}
func (f *Formatter) PromptBarcode() string {
	return "📷 Send a barcode image (or 'end' to finish)."
}
func (f *Formatter) PromptCustomer() string {
	return "📝 Send the customer details:\nname phone"
}
func (f *Formatter) PromptOrderItems() string {
	return "📝 Send items one per message:\nproduct qty\n\nSend 'credit' to book on credit, 'done' to finish."
}
func (f *Formatter) PromptCreditorDetails() string {
	return "📝 Send the creditor details:\nname amount phone"
}
func (f *Formatter) PromptCreditorName() string {
	return "📝 Send the creditor name."
}
func (f *Formatter) PromptPayment() string {
	return "📝 Send the payment details:\nname amount"
}
func (f *Formatter) PromptVoice() string {
	return "🎤 Send a voice note with your command (or 'end' to exit)."
}
func (f *Formatter) PayUsage() string {
	return "❌ Usage: pay <name> <amount>"
}
func (f *Formatter) QuickTotalUsage() string {
	return "❌ Send numbers to add, e.g. 't 12 30.5', or bare 't' for total sales."
}
func (f *Formatter) AddNewUsage() string {
	return "❌ Choose a mode: 'add new -m' (manual) or 'add new -b' (barcode)."
}
func (f *Formatter) ChangePriceUsage() string {
	return "❌ Choose a mode: 'change price -m' or 'change price -b'."
}
func (f *Formatter) OrderUsage() string {
	return "❌ Choose a mode: 'order -m' or 'order -b'."
}
