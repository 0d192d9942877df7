package domain

// TicketReply is a public reply posted to a helpdesk ticket.
type TicketReply struct {
	TicketID    int64
	Text        string
	Attachments []string
	// AgentID is the helpdesk agent the reply is sent on behalf of; nil
	// sends it without an assigned agent.
	AgentID *int64
}
