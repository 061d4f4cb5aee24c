package news

import (
	"context"
	"regexp"
	"strings"
)

const (
	descriptionLimit = 150
	ellipsis         = "..."
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Enricher turns a raw feed item into a client-facing Article by resolving
// the redirector link and attaching a preview image. Enrichment never fails:
// the worst case is the original link with no image.
type Enricher struct {
	decoder *Decoder
	images  *ImageExtractor
}

func NewEnricher(decoder *Decoder, images *ImageExtractor) *Enricher {
	return &Enricher{
		decoder: decoder,
		images:  images,
	}
}

func (e *Enricher) Run(ctx context.Context, item FeedItem) Article {
	title, source := splitSource(item.Title)

	article := Article{
		Title:       title,
		Description: truncateDescription(item.Description),
		URL:         item.Link,
		Source:      Source{Name: source},
		PublishedAt: item.Published,
	}

	result := e.decoder.Resolve(ctx, item.Link)
	article.URL = result.URL
	if !result.Decoded {
		// Still on the aggregator: its pages carry no usable preview.
		return article
	}

	finalURL, image := e.images.Run(ctx, result.URL)
	if finalURL != "" {
		article.URL = finalURL
	}
	if image != nil && *image != "" && !onAggregatorDomain(*image) {
		article.URLToImage = image
	}

	return article
}

// splitSource derives title and source name from the feed's
// "Title - Source" convention, splitting at the last separator.
func splitSource(fullTitle string) (string, string) {
	if i := strings.LastIndex(fullTitle, " - "); i >= 0 {
		return fullTitle[:i], fullTitle[i+3:]
	}
	return fullTitle, defaultSourceName
}

// truncateDescription strips HTML tags and truncates to the preview limit.
// The ellipsis is appended unconditionally, matching the upstream contract
// even for short descriptions.
func truncateDescription(description string) string {
	text := htmlTagPattern.ReplaceAllString(description, "")
	runes := []rune(text)
	if len(runes) > descriptionLimit {
		runes = runes[:descriptionLimit]
	}
	return string(runes) + ellipsis
}
