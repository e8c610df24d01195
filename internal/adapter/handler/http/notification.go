package http

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

const paymentTopic = "payment"

// notification is what the webhook could make of an inbound payload.
type notification struct {
	PaymentID string
	Source    string
	Topic     string
}

type notificationBody struct {
	ID    json.RawMessage `json:"id"`
	Type  string          `json:"type"`
	Topic string          `json:"topic"`
	Data  struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

// extractPaymentID walks the known places a gateway puts the payment id,
// in priority order: body data.id, query data.id, body id, query id.
// ok is false when none of them holds a usable id.
func extractPaymentID(body []byte, query url.Values) (notification, bool) {
	var nb notificationBody
	if len(body) > 0 {
		// an undecodable body still lets the query string speak
		_ = json.Unmarshal(body, &nb)
	}

	n := notification{Topic: firstNonEmpty(nb.Type, nb.Topic, query.Get("type"), query.Get("topic"))}

	candidates := []struct {
		source string
		value  string
	}{
		{"body.data.id", rawID(nb.Data.ID)},
		{"query.data.id", query.Get("data.id")},
		{"body.id", rawID(nb.ID)},
		{"query.id", query.Get("id")},
	}
	for _, c := range candidates {
		if c.value != "" {
			n.PaymentID = c.value
			n.Source = c.source
			return n, true
		}
	}
	return n, false
}

// isPayment reports whether the notification concerns a payment. Payloads
// without a topic are treated as payments.
func (n notification) isPayment() bool {
	return n.Topic == "" || n.Topic == paymentTopic
}

// rawID accepts both string and numeric JSON ids.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
