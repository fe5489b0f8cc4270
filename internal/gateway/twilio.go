// Package gateway speaks the Twilio WhatsApp webhook wire format: inbound
// form posts, the X-Twilio-Signature scheme, and TwiML replies.
package gateway

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/xml"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Inbound carries the fields of one webhook delivery the bot cares about.
type Inbound struct {
	From       string // sender, "whatsapp:" prefix stripped
	Body       string
	MediaURL   string
	MediaType  string
	MessageSID string
	NumMedia   int
}

// Decode extracts an Inbound from the posted form values.
func Decode(form url.Values) Inbound {
	numMedia, _ := strconv.Atoi(form.Get("NumMedia"))
	return Inbound{
		From:       strings.TrimPrefix(form.Get("From"), "whatsapp:"),
		Body:       form.Get("Body"),
		MediaURL:   form.Get("MediaUrl0"),
		MediaType:  form.Get("MediaContentType0"),
		MessageSID: form.Get("MessageSid"),
		NumMedia:   numMedia,
	}
}

// Validator checks the X-Twilio-Signature header: HMAC-SHA1 over the request
// URL with the sorted form parameters appended, base64 encoded.
type Validator struct {
	authToken string
}

func NewValidator(authToken string) Validator { return Validator{authToken: authToken} }

// Enabled is false when no auth token is configured (local development).
func (v Validator) Enabled() bool { return v.authToken != "" }

func (v Validator) Valid(requestURL string, form url.Values, signature string) bool {
	if !v.Enabled() {
		return true
	}
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

	mac := hmac.New(sha1.New, []byte(v.authToken))
	mac.Write([]byte(b.String()))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(want), []byte(signature)) == 1
}

type twimlMessage struct {
	XMLName xml.Name `xml:"Message"`
	Body    string   `xml:",chardata"`
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message twimlMessage
}

// TwiML renders one reply message as a TwiML response document.
func TwiML(body string) string {
	out, err := xml.Marshal(twimlResponse{Message: twimlMessage{Body: body}})
	if err != nil {
		return "<Response></Response>"
	}
	return xml.Header + string(out)
}
