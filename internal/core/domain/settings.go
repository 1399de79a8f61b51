package domain

import "time"

// PaymentAccount is where customers send money for a payment method.
type PaymentAccount struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// PaymentDetails maps a payment method name (e.g. "KPay") to its account.
type PaymentDetails map[string]PaymentAccount

// Clone returns a copy of d.
func (d PaymentDetails) Clone() PaymentDetails {
	out := make(PaymentDetails, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Settings holds storefront-wide configuration editable by admins.
type Settings struct {
	AdminContact string `json:"adminContact"`
}

// AuditEntry records an admin action.
type AuditEntry struct {
	ActorID   int            `json:"actorId"`
	ActorName string         `json:"actorName"`
	Action    string         `json:"action"`
	Target    string         `json:"target"`
	Detail    map[string]any `json:"detail,omitempty"`
	At        time.Time      `json:"at"`
}
