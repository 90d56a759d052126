package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is the canonical form every payment value is parsed
// into at the API boundary. Nothing downstream re-inspects raw shapes.
type PaymentMethod struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PaymentFields carries whatever subset of payment-related fields a
// record happens to have. Historical records stored the method as a
// plain string, a short code, or an object with provider/name/type/id,
// sometimes under different field names; the resolver accepts them all.
type PaymentFields struct {
	MethodName interface{}
	Method     interface{}
	MethodID   interface{}
	Payment    interface{}
}

const LabelUnknown = "Unknown"

// Canonical labels in match order. Order matters: "cash" is checked
// last so it cannot shadow the more specific tokens.
var paymentTokens = []struct {
	tokens []string
	label  string
}{
	{[]string{"gcash"}, "GCash"},
	{[]string{"paymaya", "maya"}, "Maya"},
	{[]string{"paypal"}, "PayPal"},
	{[]string{"cash", "cod"}, "Cash on Delivery"},
}

// LabelToID maps canonical labels to their short codes.
var LabelToID = map[string]string{
	"GCash":            "gcash",
	"Maya":             "maya",
	"PayPal":           "paypal",
	"Cash on Delivery": "cod",
}

// ResolvePaymentLabel infers the canonical display label from any
// combination of legacy payment fields. It is pure and total: nil or
// empty input yields "Unknown", never an error.
func ResolvePaymentLabel(fields *PaymentFields) string {
	if fields == nil {
		return LabelUnknown
	}

	candidates := []string{
		paymentFieldString(fields.MethodName),
		paymentFieldString(fields.Method),
		paymentFieldString(fields.MethodID),
		paymentFieldString(fields.Payment),
	}

	joined := strings.ToLower(strings.Join(candidates, " "))
	norm := stripNonAlnum(joined)

	for _, entry := range paymentTokens {
		for _, token := range entry.tokens {
			if strings.Contains(norm, token) {
				return entry.label
			}
		}
	}

	// Fallback: exact equality on the raw primary fields.
	for _, raw := range candidates {
		switch strings.TrimSpace(strings.ToLower(raw)) {
		case "gcash":
			return "GCash"
		case "maya", "paymaya":
			return "Maya"
		case "paypal":
			return "PayPal"
		case "cash", "cod", "cash on delivery":
			return "Cash on Delivery"
		}
	}

	return LabelUnknown
}

// ParsePaymentMethod is the single boundary where a raw payment value
// from a request or a stored record is turned into the canonical
// {id, label} pair.
func ParsePaymentMethod(raw json.RawMessage) PaymentMethod {
	if len(raw) == 0 {
		return PaymentMethod{ID: "", Label: LabelUnknown}
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		// Treat unparseable input as an opaque string.
		value = string(raw)
	}

	label := ResolvePaymentLabel(&PaymentFields{Payment: value})

	id := LabelToID[label]
	if id == "" {
		if s, ok := value.(string); ok {
			id = strings.TrimSpace(strings.ToLower(s))
		}
	}

	return PaymentMethod{ID: id, Label: label}
}

// paymentFieldString flattens one candidate field into a string. For
// objects the provider/name/type/id keys are preferred, in that order.
func paymentFieldString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}:
		for _, key := range []string{"provider", "name", "type", "id"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
