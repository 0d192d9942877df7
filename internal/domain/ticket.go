package domain

// Ticket references a helpdesk ticket supplied by the inbound request.
// Fields the service does not interpret are carried in Extra.
type Ticket struct {
	ID          int64
	ClientEmail string
	ClientName  string
	Subject     string
	Extra       map[string]any
}
