package frontier

// Page is the crawler's in-memory record of one downloaded document,
// addressed the way the corpus addresses it. Metadata fields are filled
// in by internal/parser in one Parse call, before the orchestrator works
// through the page's outlinks.
type Page struct {
	URL   string
	DocID string
	DocNo int

	QScore    float64
	HasQScore bool

	Outlinks   []string
	NumInlinks int
}
