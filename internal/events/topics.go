package events

// Topic constants for domain events emitted by the register.
const (
	TopicOrderCreated    = "order.created"
	TopicOrderSynced     = "order.synced"
	TopicOrderSyncFailed = "order.sync_failed"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderSynced,
		TopicOrderSyncFailed,
	}
}
