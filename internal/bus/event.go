package bus

// Event is the normalized feed event the poller emits and the bus carries
// (spec §4.9). The wire payload omits Identifier — the consumer derives it
// via internal/identity when it loads the event.
type Event struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	NumComments int    `json:"num_comments"`
	Text        string `json:"text"`
	CharCount   int    `json:"char_count"`
}
