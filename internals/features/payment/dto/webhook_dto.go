package dto

// Payload notifikasi dari payment gateway.
type WebhookPayload struct {
	ExternalID    string `json:"external_id"` // "CERT-{application_id}"
	Status        string `json:"status"`      // PAID | EXPIRED | FAILED
	ID            string `json:"id"`          // id transaksi di sisi gateway
	PaymentMethod string `json:"payment_method"`
}

// Webhook selalu dijawab terstruktur, apa pun isi payload-nya.
type WebhookResult struct {
	Processed  bool   `json:"processed"`
	ExternalID string `json:"external_id,omitempty"`
	Message    string `json:"message"`
}
