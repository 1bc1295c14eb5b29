package usecase

const (
	// LockCapitalBalance totally orders every writer that can move the
	// capital balance.
	LockCapitalBalance = "capital balance operations"

	// LockRevenueLedger totally orders every writer of the revenue
	// ledger and its period summaries.
	LockRevenueLedger = "revenue ledger operations"

	// LockSequencePrefix namespaces the per-domain number generation
	// locks ("sequence:CAP", "sequence:PUR", ...).
	LockSequencePrefix = "sequence:"

	// Entry code prefixes. Codes are fixed-width zero-padded so that
	// lexicographic order equals numeric order.
	PrefixCapital      = "CAP"
	PrefixRevenue      = "REV"
	PrefixWithdrawal   = "WD"
	PrefixReinvestment = "RV"
	PrefixExpense      = "EXP"
	PrefixPurchase     = "PUR"
	PrefixPayment      = "PAY"
)

// sequenceRetries bounds the linear-backoff retry loop around the
// locking read in the sequence generator.
const sequenceRetries = 3
