package news

// DefaultBaseURL is the aggregator origin all outbound pipeline requests are
// built against. Overridable on the components for tests.
const DefaultBaseURL = "https://news.google.com"

// aggregatorDomains are hosts whose images are never usable as article
// previews: the news portal itself, its static-asset CDN, and its
// user-content CDN.
var aggregatorDomains = []string{
	"news.google.com",
	"gstatic.com",
	"googleusercontent.com",
}

// pubDateLayout is the feed-native pubDate format of the search feed.
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 MST"

const defaultSourceName = "Global News"

// FeedItem is one raw entry of the search feed before enrichment. Link is
// usually a redirector URL; Published is kept verbatim because the API
// passes it through unchanged.
type FeedItem struct {
	Title       string
	Link        string
	Description string
	Published   string
}

// Source mirrors the NewsAPI-style nested source object.
type Source struct {
	Name string `json:"name"`
}

// Article is the enriched, client-facing unit. URLToImage is a pointer so a
// missing preview serializes as JSON null rather than an empty string.
type Article struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	Source      Source  `json:"source"`
	PublishedAt string  `json:"publishedAt"`
}

// DecodeResult is the outcome of redirector resolution. URL is never empty:
// it falls back to the input when decoding fails. Decoded reports whether
// the URL left the aggregator's domain, which downstream uses to suppress
// aggregator-hosted preview images.
type DecodeResult struct {
	URL     string
	Decoded bool
}
