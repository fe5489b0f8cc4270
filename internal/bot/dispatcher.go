package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"localledger/internal/domain"
	"localledger/internal/services"
	"localledger/internal/validate"
)

// Engine is the intent resolver: it owns conversation state and maps
// (state, message) to exactly one domain operation and one reply.
type Engine struct {
	Inventory *services.InventoryService
	Credit    *services.CreditService
	Orders    *services.OrderService
	Reports   *services.ReportService
	Speech    Speech
	Scanner   BarcodeScanner
	Sessions  *SessionStore
	Reply     *Formatter
}

func NewEngine(
	inv *services.InventoryService,
	credit *services.CreditService,
	orders *services.OrderService,
	reports *services.ReportService,
	speech Speech,
	scanner BarcodeScanner,
	sessions *SessionStore,
	reply *Formatter,
) *Engine {
	return &Engine{
		Inventory: inv,
		Credit:    credit,
		Orders:    orders,
		Reports:   reports,
		Speech:    speech,
		Scanner:   scanner,
		Sessions:  sessions,
		Reply:     reply,
	}
}

// Handle processes one inbound message and always returns exactly one reply.
// Processing is serialized per sender.
func (e *Engine) Handle(ctx context.Context, in Inbound) string {
	if in.Sender == "" {
		return e.Reply.NoSender()
	}
	unlock := e.Sessions.Lock(in.Sender)
	defer unlock()

	if e.Sessions.Duplicate(in.Sender, in.MessageSID) {
		return e.Reply.DuplicateDelivery()
	}

	var reply string
	switch in.Kind() {
	case KindAudio:
		reply = e.handleVoice(ctx, in)
	case KindImage:
		reply = e.handleImage(ctx, in)
	default:
		reply = e.handleText(ctx, in.Sender, in.Text)
	}
	e.Sessions.MarkSID(in.Sender, in.MessageSID)
	return reply
}

func (e *Engine) handleVoice(ctx context.Context, in Inbound) string {
	// A pending "add -v" session is consumed by the voice note either way.
	if sess := e.Sessions.Get(in.Sender); sess != nil && sess.Flow == FlowVoice {
		e.Sessions.End(in.Sender)
	}
	text, err := e.Speech.TranscribeAndTranslate(ctx, in.MediaURL)
	if err != nil {
		return e.Reply.VoiceFailed()
	}
	return e.handleText(ctx, in.Sender, text)
}

func (e *Engine) handleImage(ctx context.Context, in Inbound) string {
	sess := e.Sessions.Get(in.Sender)
	if sess == nil || sess.Step != StepBarcode {
		return e.Reply.UnexpectedImage()
	}
	code, err := e.Scanner.Decode(ctx, in.MediaURL)
	if err != nil {
		return e.Reply.BarcodeFailed()
	}

	switch sess.Flow {
	case FlowBarcodeAdd:
		if _, err := e.Inventory.Products.ByBarcode(code); err == nil {
			return e.Reply.Err(fmt.Errorf("%w: barcode %s", domain.ErrDuplicateProduct, code)) +
				"\n\nSend the next barcode image or 'end' to finish."
		} else if !errors.Is(err, domain.ErrProductNotFound) {
			return e.Reply.Err(err)
		}
		sess.Barcode = code
		sess.Step = StepDetails
		e.Sessions.Put(in.Sender, sess)
		return e.Reply.BarcodeScanned(code)

	case FlowBarcodePrice:
		p, err := e.Inventory.Products.ByBarcode(code)
		if err != nil {
			return e.Reply.Err(err)
		}
		sess.Name = p.Name
		sess.Step = StepPrice
		e.Sessions.Put(in.Sender, sess)
		return e.Reply.BarcodePriceScanned(p.Name)

	case FlowBarcodeOrder:
		p, err := e.Inventory.Products.ByBarcode(code)
		if err != nil {
			return e.Reply.Err(err)
		}
		sess.Pending = p.Name
		sess.Step = StepItemQty
		e.Sessions.Put(in.Sender, sess)
		return e.Reply.OrderItemScanned(p.Name)
	}
	return e.Reply.UnexpectedImage()
}

func (e *Engine) handleText(ctx context.Context, sender, text string) string {
	norm := Normalize(text)
	if norm == "" {
		return e.Reply.EmptyMessage()
	}

	if sess := e.Sessions.Get(sender); sess != nil {
		if norm == "cancel" {
			e.Sessions.End(sender)
			return e.Reply.Cancelled()
		}
		return e.advance(sender, sess, norm)
	}

	cmd, err := Parse(norm)
	if err != nil {
		return e.Reply.Err(err)
	}
	return e.dispatch(sender, cmd)
}

// dispatch handles top-level commands from the Idle state. Single-shot
// commands execute immediately; multi-step commands open a session.
func (e *Engine) dispatch(sender string, cmd Command) string {
	start := func(flow Flow, step Step, prompt string) string {
		e.Sessions.Put(sender, &Session{Flow: flow, Step: step})
		return prompt
	}

	switch cmd.Keyword {
	case "help":
		return e.Reply.Help()

	case "l":
		products, err := e.Inventory.List()
		if err != nil {
			return e.Reply.Err(err)
		}
		return e.Reply.ProductList(products)

	case "low":
		products, err := e.Inventory.LowStock()
		if err != nil {
			return e.Reply.Err(err)
		}
		return e.Reply.LowStockList(products)

	case "creditors":
		creditors, err := e.Credit.List()
		if err != nil {
			return e.Reply.Err(err)
		}
		return e.Reply.CreditorList(creditors)

	case "get total cred":
		total, err := e.Credit.Total()
		if err != nil {
			return e.Reply.Err(err)
		}
		return e.Reply.TotalCredit(total)

	case "daily":
		r, err := e.Reports.Daily()
		if err != nil {
			return e.Reply.Err(err)
		}
		return e.Reply.Report("Daily", r)

	case "weekly":
		r, err := e.Reports.Weekly()
		if err != nil {
			return e.Reply.Err(err)
		}
		return e.Reply.Report("Weekly", r)

	case "t":
		if len(cmd.Args) == 0 {
			total, err := e.Reports.TotalSales()
			if err != nil {
				return e.Reply.Err(err)
			}
			return e.Reply.TotalSales(total)
		}
		total, err := e.Reports.QuickTotal(cmd.Args)
		if err != nil {
			return e.Reply.QuickTotalUsage()
		}
		return e.Reply.QuickTotal(total)

	case "get cred amount":
		if len(cmd.Args) > 0 {
			c, err := e.Credit.Amount(strings.Join(cmd.Args, " "))
			if err != nil {
				return e.Reply.Err(err)
			}
			return e.Reply.CreditAmount(c)
		}
		return start(FlowCreditCheck, StepOneLine, e.Reply.PromptCreditorName())

	case "pay":
		if len(cmd.Args) == 0 {
			return start(FlowPay, StepOneLine, e.Reply.PromptPayment())
		}
		if len(cmd.Args) < 2 {
			return e.Reply.PayUsage()
		}
		name := strings.Join(cmd.Args[:len(cmd.Args)-1], " ")
		amount, ok := validate.Amount(cmd.Args[len(cmd.Args)-1])
		if !ok {
			return e.Reply.PayUsage()
		}
		c, err := e.Credit.Pay(name, amount)
		if err != nil {
			return e.Reply.Err(err)
		}
		return e.Reply.PaymentApplied(c, amount)

	case "add new":
		switch {
		case cmd.Flag("m"):
			return start(FlowManualAdd, StepName, e.Reply.PromptProductName())
		case cmd.Flag("b"):
			return start(FlowBarcodeAdd, StepBarcode, e.Reply.PromptBarcode())
		default:
			return e.Reply.AddNewUsage()
		}

	case "add":
		if cmd.Flag("v") {
			return start(FlowVoice, StepVoiceNote, e.Reply.PromptVoice())
		}
		return e.Reply.Unknown("add")

	case "change price":
		switch {
		case cmd.Flag("m"):
			return start(FlowManualPrice, StepName, e.Reply.PromptProductName())
		case cmd.Flag("b"):
			return start(FlowBarcodePrice, StepBarcode, e.Reply.PromptBarcode())
		default:
			return e.Reply.ChangePriceUsage()
		}

	case "order":
		switch {
		case cmd.Flag("m"):
			return start(FlowOrder, StepCustomer, e.Reply.PromptCustomer())
		case cmd.Flag("b"):
			return start(FlowBarcodeOrder, StepCustomer, e.Reply.PromptCustomer())
		default:
			return e.Reply.OrderUsage()
		}

	case "add creditor":
		return start(FlowAddCreditor, StepOneLine, e.Reply.PromptCreditorDetails())

	case "del creditor":
		return start(FlowDelCreditor, StepOneLine, e.Reply.PromptCreditorName())
	}

	return e.Reply.Unknown(cmd.Keyword)
}

// advance applies one message to an active session. Invalid input re-prompts
// the same step; it never falls through to top-level parsing.
func (e *Engine) advance(sender string, sess *Session, msg string) string {
	touch := func() { e.Sessions.Put(sender, sess) }
	end := func(reply string) string {
		e.Sessions.End(sender)
		return reply
	}

	switch sess.Flow {
	case FlowManualAdd:
		switch sess.Step {
		case StepName:
			if msg == "end" {
				return end(e.Reply.ManualAddDone(sess.Added))
			}
			name, ok := validate.Name(msg)
			if !ok {
				return e.Reply.Reprompt("Invalid product name.")
			}
			sess.Name = name
			sess.Step = StepPrice
			touch()
			return e.Reply.PromptPrice(name)
		case StepPrice:
			price, ok := validate.Amount(msg)
			if !ok {
				return e.Reply.Reprompt("Price must be a positive number.")
			}
			sess.Price = price
			sess.Step = StepQty
			touch()
			return e.Reply.PromptQty(sess.Name)
		case StepQty:
			qty, ok := validate.Stock(msg)
			if !ok {
				return e.Reply.Reprompt("Quantity must be a whole number, 0 or more.")
			}
			p, err := e.Inventory.Add(sess.Name, sess.Price, qty, "")
			sess.Name, sess.Step = "", StepName
			if err != nil {
				touch()
				return e.Reply.Err(err) + "\n\nSend the next product name or 'end' to finish."
			}
			sess.Added++
			touch()
			return e.Reply.ProductAdded(p)
		}

	case FlowBarcodeAdd:
		switch sess.Step {
		case StepBarcode:
			if msg == "end" {
				return end(e.Reply.ManualAddDone(sess.Added))
			}
			return e.Reply.Reprompt("Send a barcode image, or 'end' to finish.")
		case StepDetails:
			if msg == "end" {
				return end(e.Reply.ManualAddDone(sess.Added))
			}
			parts := strings.Fields(msg)
			if len(parts) != 2 {
				return e.Reply.Reprompt("Send quantity and price as: qty price")
			}
			qty, okQty := validate.Stock(parts[0])
			price, okPrice := validate.Amount(parts[1])
			if !okQty || !okPrice {
				return e.Reply.Reprompt("Send quantity and price as: qty price")
			}
			name := "product-" + sess.Barcode
			p, err := e.Inventory.Add(name, price, qty, sess.Barcode)
			sess.Barcode, sess.Step = "", StepBarcode
			if err != nil {
				touch()
				return e.Reply.Err(err) + "\n\nSend the next barcode image or 'end' to finish."
			}
			sess.Added++
			touch()
			return e.Reply.BarcodeProductAdded(p)
		}

	case FlowManualPrice:
		switch sess.Step {
		case StepName:
			name, ok := validate.Name(msg)
			if !ok {
				return e.Reply.Reprompt("Invalid product name.")
			}
			sess.Name = name
			sess.Step = StepPrice
			touch()
			return e.Reply.PromptPrice(name)
		case StepPrice:
			price, ok := validate.Amount(msg)
			if !ok {
				return e.Reply.Reprompt("Price must be a positive number.")
			}
			p, err := e.Inventory.ChangePriceByName(sess.Name, price)
			if err != nil {
				return end(e.Reply.Err(err))
			}
			return end(e.Reply.PriceChanged(p))
		}

	case FlowBarcodePrice:
		switch sess.Step {
		case StepBarcode:
			if msg == "end" {
				return end(e.Reply.Cancelled())
			}
			return e.Reply.Reprompt("Send a barcode image, or 'end' to finish.")
		case StepPrice:
			price, ok := validate.Amount(msg)
			if !ok {
				return e.Reply.Reprompt("Price must be a positive number.")
			}
			p, err := e.Inventory.ChangePriceByName(sess.Name, price)
			if err != nil {
				return end(e.Reply.Err(err))
			}
			return end(e.Reply.PriceChanged(p))
		}

	case FlowOrder, FlowBarcodeOrder:
		return e.advanceOrder(sender, sess, msg)

	case FlowAddCreditor:
		// name amount phone, name may span words
		parts := strings.Fields(msg)
		if len(parts) < 3 {
			return e.Reply.Reprompt("Send: name amount phone")
		}
		phone, okPhone := validate.Phone(parts[len(parts)-1])
		amount, okAmount := validate.Amount(parts[len(parts)-2])
		name, okName := validate.Name(strings.Join(parts[:len(parts)-2], " "))
		if !okPhone || !okAmount || !okName {
			return e.Reply.Reprompt("Send: name amount phone")
		}
		c, err := e.Credit.Add(name, amount, phone)
		if err != nil {
			return end(e.Reply.Err(err))
		}
		return end(e.Reply.CreditorAdded(c))

	case FlowDelCreditor:
		name, ok := validate.Name(msg)
		if !ok {
			return e.Reply.Reprompt("Invalid creditor name.")
		}
		c, err := e.Credit.Delete(name)
		if err != nil {
			return end(e.Reply.Err(err))
		}
		return end(e.Reply.CreditorDeleted(c))

	case FlowPay:
		parts := strings.Fields(msg)
		if len(parts) < 2 {
			return e.Reply.Reprompt("Send: name amount")
		}
		amount, ok := validate.Amount(parts[len(parts)-1])
		if !ok {
			return e.Reply.Reprompt("Amount must be a positive number.")
		}
		name := strings.Join(parts[:len(parts)-1], " ")
		c, err := e.Credit.Pay(name, amount)
		if err != nil {
			return end(e.Reply.Err(err))
		}
		return end(e.Reply.PaymentApplied(c, amount))

	case FlowCreditCheck:
		name, ok := validate.Name(msg)
		if !ok {
			return e.Reply.Reprompt("Invalid creditor name.")
		}
		c, err := e.Credit.Amount(name)
		if err != nil {
			return end(e.Reply.Err(err))
		}
		return end(e.Reply.CreditAmount(c))

	case FlowVoice:
		if msg == "end" {
			return end(e.Reply.Cancelled())
		}
		return e.Reply.Reprompt("Send a voice note, or 'end' to exit voice mode.")
	}

	// A session in an impossible state is dropped rather than wedged.
	return end(e.Reply.Cancelled())
}

func (e *Engine) advanceOrder(sender string, sess *Session, msg string) string {
	touch := func() { e.Sessions.Put(sender, sess) }
	end := func(reply string) string {
		e.Sessions.End(sender)
		return reply
	}

	finish := func() string {
		res, err := e.Orders.Place(sess.Customer, sess.Lines, sess.OnCredit)
		if err != nil {
			return end(e.Reply.Err(err))
		}
		return end(e.Reply.OrderPlaced(res))
	}

	switch sess.Step {
	case StepCustomer:
		parts := strings.Fields(msg)
		if len(parts) < 2 {
			return e.Reply.Reprompt("Send: name phone")
		}
		phone, okPhone := validate.Phone(parts[len(parts)-1])
		name, okName := validate.Name(strings.Join(parts[:len(parts)-1], " "))
		if !okPhone || !okName {
			return e.Reply.Reprompt("Send: name phone")
		}
		sess.Customer = services.Customer{Name: name, Phone: phone}
		if sess.Flow == FlowBarcodeOrder {
			sess.Step = StepBarcode
			touch()
			return e.Reply.PromptBarcode()
		}
		sess.Step = StepItems
		touch()
		return e.Reply.PromptOrderItems()

	case StepItems: // manual order items
		switch msg {
		case "done", "end":
			return finish()
		case "credit":
			sess.OnCredit = true
			touch()
			return e.Reply.OrderOnCredit()
		}
		parts := strings.Fields(msg)
		if len(parts) < 2 {
			return e.Reply.Reprompt("Send: product qty")
		}
		qty, okQty := validate.Qty(parts[len(parts)-1])
		name, okName := validate.Name(strings.Join(parts[:len(parts)-1], " "))
		if !okQty || !okName {
			return e.Reply.Reprompt("Send: product qty")
		}
		p, err := e.Inventory.Products.ByName(name)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return e.Reply.Reprompt("Product not found: " + name)
			}
			return end(e.Reply.Err(err))
		}
		sess.Lines = append(sess.Lines, services.OrderLine{ProductName: p.Name, Qty: qty})
		touch()
		return e.Reply.OrderItemQueued(p.Name, qty)

	case StepBarcode: // barcode order, awaiting image
		switch msg {
		case "done", "end":
			return finish()
		case "credit":
			sess.OnCredit = true
			touch()
			return e.Reply.OrderOnCredit()
		}
		return e.Reply.Reprompt("Send a barcode image, 'credit', or 'done'.")

	case StepItemQty:
		qty, ok := validate.Qty(msg)
		if !ok {
			return e.Reply.Reprompt("Quantity must be a positive whole number.")
		}
		sess.Lines = append(sess.Lines, services.OrderLine{ProductName: sess.Pending, Qty: qty})
		sess.Pending = ""
		sess.Step = StepBarcode
		touch()
		return e.Reply.OrderItemQueued(sess.Lines[len(sess.Lines)-1].ProductName, qty)
	}

	return end(e.Reply.Cancelled())
}
