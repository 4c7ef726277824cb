package options

type Order string

const (
	Insertion Order = "INSERTION"
	Ascend    Order = "ASC"
	Descend   Order = "DESC"
)

type ListOptions struct {
	O       Order
	Px      string
	Pattern string
	Limit   int
}

func (lo *ListOptions) SetOrder(o Order) *ListOptions {
	lo.O = o
	return lo
}

// Prefix keeps only records whose id starts with p.
func (lo *ListOptions) Prefix(p string) *ListOptions {
	lo.Px = p
	return lo
}

// Match keeps only records whose id matches the glob pattern, where
// * matches any run of characters and ? a single one.
func (lo *ListOptions) Match(pattern string) *ListOptions {
	lo.Pattern = pattern
	return lo
}

// SetLimit caps the number of returned records; zero means no cap.
func (lo *ListOptions) SetLimit(n int) *ListOptions {
	lo.Limit = n
	return lo
}

func List() *ListOptions {
	return &ListOptions{O: Insertion}
}
