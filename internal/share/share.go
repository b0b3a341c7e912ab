// Package share builds social share URLs for a quote.
package share

import (
	"fmt"
	"net/url"

	"github.com/quotify/quotifyd/internal/models"
)

// ShareText formats a quote the way it appears in a share post
func ShareText(quote models.Quote) string {
	return fmt.Sprintf("%q — %s", quote.Text, quote.Author)
}

// TwitterURL returns a tweet intent URL for the quote
func TwitterURL(quote models.Quote) string {
	return "https://twitter.com/intent/tweet?text=" +
		url.QueryEscape(ShareText(quote)) + "&hashtags=QuotifyNotes"
}

// ThreadsURL returns a Threads post intent URL for the quote
func ThreadsURL(quote models.Quote) string {
	return "https://threads.net/intent/post?text=" + url.QueryEscape(ShareText(quote))
}
