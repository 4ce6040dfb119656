package enums

// OutboxEventType names the domain events the back office emits.
type OutboxEventType string

const (
	EventOrderCompleted     OutboxEventType = "order.completed"
	EventCommissionCredited OutboxEventType = "commission.credited"
	EventCashoutRequested   OutboxEventType = "cashout.requested"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder   OutboxAggregateType = "order"
	AggregateAccount OutboxAggregateType = "account"
)
