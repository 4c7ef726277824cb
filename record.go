package shelf

// Record is a single catalog entry owned by a Store.
type Record interface {
	// Key is the unique id of the record.
	Key() string
	// Label is the human facing name matched by Search.
	Label() string
}

// Stamper is implemented by records that carry created/modified timestamps.
type Stamper[R any] interface {
	Created() string
	Stamp(created, modified string) R
}

// Incrementer is implemented by records with a stock quantity.
type Incrementer[R any] interface {
	Increment(by int) R
}

// Validator is implemented by records with domain invariants.
type Validator interface {
	Validate() error
}

// Schema tells a Store how to rebuild records from the backing file.
type Schema[R Record] struct {
	Name string
	// Decode builds a record stored under key. The key of the backing
	// document is authoritative for the record id.
	Decode func(key string, doc *Document) (R, error)
}

// Outcome reports what AddOrIncrement did.
type Outcome int

const (
	Unchanged Outcome = iota
	Inserted
	Incremented
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Incremented:
		return "incremented"
	default:
		return "unchanged"
	}
}
