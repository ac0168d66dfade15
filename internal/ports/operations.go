package ports

// Operation names understood by Operator.Perform.
const (
	OperationGetTicket    = "get_ticket"
	OperationCreateTicket = "create_ticket"
	OperationUpdateTicket = "update_ticket"
	OperationSearch       = "search"
)
