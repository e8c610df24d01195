package http

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPaymentID(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		query     url.Values
		expOK     bool
		expID     string
		expSource string
		expTopic  string
	}{
		{
			name:      "body data.id string",
			body:      `{"type":"payment","data":{"id":"123"}}`,
			expOK:     true,
			expID:     "123",
			expSource: "body.data.id",
			expTopic:  "payment",
		},
		{
			name:      "body data.id number",
			body:      `{"data":{"id":1234567890123}}`,
			expOK:     true,
			expID:     "1234567890123",
			expSource: "body.data.id",
		},
		{
			name:      "body wins over query",
			body:      `{"data":{"id":"1"}}`,
			query:     url.Values{"data.id": {"2"}, "id": {"3"}},
			expOK:     true,
			expID:     "1",
			expSource: "body.data.id",
		},
		{
			name:      "query data.id before body id",
			body:      `{"id":"5"}`,
			query:     url.Values{"data.id": {"4"}},
			expOK:     true,
			expID:     "4",
			expSource: "query.data.id",
		},
		{
			name:      "body id",
			body:      `{"id":5,"topic":"payment"}`,
			expOK:     true,
			expID:     "5",
			expSource: "body.id",
			expTopic:  "payment",
		},
		{
			name:      "query id with garbage body",
			body:      `not json`,
			query:     url.Values{"id": {"6"}, "topic": {"payment"}},
			expOK:     true,
			expID:     "6",
			expSource: "query.id",
			expTopic:  "payment",
		},
		{
			name:  "empty",
			expOK: false,
		},
		{
			name:  "null and blank ids",
			body:  `{"id":null,"data":{"id":"  "}}`,
			expOK: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			n, ok := extractPaymentID([]byte(test.body), test.query)
			assert.Equal(t, test.expOK, ok)
			assert.Equal(t, test.expID, n.PaymentID)
			assert.Equal(t, test.expSource, n.Source)
			assert.Equal(t, test.expTopic, n.Topic)
		})
	}
}

func TestNotification_IsPayment(t *testing.T) {
	assert.True(t, notification{}.isPayment())
	assert.True(t, notification{Topic: "payment"}.isPayment())
	assert.False(t, notification{Topic: "merchant_order"}.isPayment())
}
