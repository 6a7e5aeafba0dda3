package constants

const (
	ActionJournalExchange     = "six_cities.actions"
	ActionJournalExchangeType = "topic"
)
