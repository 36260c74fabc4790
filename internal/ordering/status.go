package ordering

// Status is the order lifecycle state. Transitions are strictly linear:
// pending -> cooking -> served -> paid, with paid terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusCooking Status = "cooking"
	StatusServed  Status = "served"
	StatusPaid    Status = "paid"
)

var nextStatus = map[Status]Status{
	StatusPending: StatusCooking,
	StatusCooking: StatusServed,
	StatusServed:  StatusPaid,
	StatusPaid:    StatusPaid,
}

func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	_, ok := nextStatus[s]
	return s, ok
}

func (s Status) Valid() bool {
	_, ok := nextStatus[s]
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusPaid
}

// Next returns the successor state. Paid maps to itself so advancing a settled
// order is idempotent rather than an error.
func (s Status) Next() Status {
	return nextStatus[s]
}

// activeStatusesSQL matches the predicate of the partial unique index on
// orders; the two must stay in sync.
const activeStatusesSQL = `('pending', 'cooking', 'served')`
