// Package identity builds the key used to suppress duplicate postings seen
// across pages, sources or re-crawls within one run.
package identity

import (
	"strings"

	"github.com/amishk599/salarynorm/internal/model"
	"github.com/amishk599/salarynorm/internal/textutil"
)

// Separator joins the normalized fields of a key.
const Separator = "|"

// BuildKey normalizes url, company and title (trim, lower-case, collapse
// whitespace) and joins them with Separator. Query strings are kept, so two
// URLs that differ only in their parameters produce different keys.
func BuildKey(url, company, title string) string {
	return strings.Join([]string{norm(url), norm(company), norm(title)}, Separator)
}

// KeyOf builds the key of a raw posting from its URL, company and title.
func KeyOf(p model.RawPosting) string {
	return BuildKey(p.JobURL, p.CompanyName, p.JobTitle)
}

func norm(s string) string {
	return strings.ToLower(textutil.CollapseSpace(s))
}
