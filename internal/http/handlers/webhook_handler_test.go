package handlers_test

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"localledger/internal/config"
	"localledger/internal/http/handlers"
	"localledger/internal/repos"
)

// Minimal app setup mirroring the production wiring.
func newWebhookApp(t *testing.T, cfg config.Config) *fiber.App {
	t.Helper()
	cfg.DBDSN = ":memory:"
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	app := fiber.New()
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg)
	app.Post("/webhook", deps.Webhook.Receive)
	return app
}

func webhookForm(from, body string) url.Values {
	return url.Values{
		"From":       {"whatsapp:" + from},
		"Body":       {body},
		"MessageSid": {"SM-test-1"},
		"NumMedia":   {"0"},
	}
}

func postWebhook(t *testing.T, app *fiber.App, form url.Values, sig string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sig != "" {
		req.Header.Set("X-Twilio-Signature", sig)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(raw)
}

func TestWebhookRepliesTwiML(t *testing.T) {
	app := newWebhookApp(t, config.Config{})

	resp, body := postWebhook(t, app, webhookForm("+919876500001", "l"), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/xml") {
		t.Fatalf("want xml content type, got %q", ct)
	}
	if !strings.Contains(body, "<Response><Message>") {
		t.Fatalf("not a TwiML reply: %q", body)
	}
	if !strings.Contains(body, "No products found") {
		t.Fatalf("unexpected reply body: %q", body)
	}
}

func TestWebhookUnknownCommandStill200(t *testing.T) {
	app := newWebhookApp(t, config.Config{})

	// the bot never surfaces errors as HTTP failures
	resp, body := postWebhook(t, app, webhookForm("+919876500001", "garbage input"), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Unknown command") {
		t.Fatalf("unexpected reply: %q", body)
	}
}

func TestWebhookBadSenderStill200(t *testing.T) {
	app := newWebhookApp(t, config.Config{})

	form := webhookForm("not-a-phone", "l")
	resp, body := postWebhook(t, app, form, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Could not determine sender") {
		t.Fatalf("unexpected reply: %q", body)
	}
}

func twilioSign(token, requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(requestURL)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(form.Get(k))
	}
	mac := hmac.New(sha1.New, []byte(token))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookSignatureEnforced(t *testing.T) {
	const token = "test-auth-token"
	app := newWebhookApp(t, config.Config{TwilioAuthToken: token})
	form := webhookForm("+919876500001", "l")

	// missing signature
	resp, _ := postWebhook(t, app, form, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("missing signature: want 403, got %d", resp.StatusCode)
	}

	// wrong signature
	resp, _ = postWebhook(t, app, form, "bogus")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("wrong signature: want 403, got %d", resp.StatusCode)
	}

	// correct signature over the test request URL
	sig := twilioSign(token, "http://example.com/webhook", form)
	resp, body := postWebhook(t, app, form, sig)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid signature: want 200, got %d (%s)", resp.StatusCode, body)
	}
}
