package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"localledger/internal/bot"
	"localledger/internal/gateway"
	applog "localledger/internal/log"
	"localledger/internal/validate"
)

type WebhookHandler struct {
	Engine    *bot.Engine
	Validator gateway.Validator
}

// Receive handles one inbound WhatsApp message and always answers with a
// single TwiML reply, whatever happened inside.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	form := url.Values{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		form.Add(string(k), string(v))
	})

	if h.Validator.Enabled() {
		sig := c.Get("X-Twilio-Signature")
		reqURL := c.BaseURL() + c.OriginalURL()
		if !h.Validator.Valid(reqURL, form, sig) {
			applog.Security(c, "webhook.signature.fail", nil)
			return c.SendStatus(fiber.StatusForbidden)
		}
	}

	in := gateway.Decode(form)
	sender, ok := validate.Phone(in.From)
	if !ok {
		applog.Security(c, "webhook.sender.invalid", map[string]any{"from": in.From})
		return replyTwiML(c, h.Engine.Handle(c.UserContext(), bot.Inbound{}))
	}
	c.Locals("sender", sender)

	applog.Info(c, "webhook.receive", map[string]any{
		"sid": in.MessageSID, "media": in.MediaType, "len": len(in.Body),
	})

	reply := h.Engine.Handle(c.UserContext(), bot.Inbound{
		Sender:     sender,
		Text:       in.Body,
		MediaURL:   in.MediaURL,
		MediaType:  in.MediaType,
		MessageSID: in.MessageSID,
	})

	applog.Audit(c, "webhook.reply", map[string]any{"len": len(reply)})
	return replyTwiML(c, reply)
}

func replyTwiML(c *fiber.Ctx, body string) error {
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.SendString(gateway.TwiML(body))
}
