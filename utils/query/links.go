package queryHelper

import (
	"html/template"
	"net/url"
	"strconv"
)

// PageLink is one numbered pagination link
type PageLink struct {
	Number  int
	URL     template.URL
	Current bool
}

// Pager holds the rendered pagination links of a listing
type Pager struct {
	Links []PageLink
	Prev  template.URL // empty on the first page
	Next  template.URL // empty on the last page
}

// PageURL links to page of path, keeping the other non-empty query parameters
func PageURL(path string, params url.Values, page int) template.URL {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			if v != "" && k != "page" {
				q.Add(k, v)
			}
		}
	}
	q.Set("page", strconv.Itoa(page))
	return template.URL(path + "?" + q.Encode())
}

// NewPager builds the links for p. There are no links when everything fits on one page.
func NewPager(path string, params url.Values, p Pagination) Pager {
	var pager Pager
	if p.TotalPages <= 1 {
		return pager
	}
	for _, n := range p.Pages() {
		pager.Links = append(pager.Links, PageLink{
			Number:  n,
			URL:     PageURL(path, params, n),
			Current: n == p.CurrentPage,
		})
	}
	if p.HasPrev() {
		pager.Prev = PageURL(path, params, p.PrevPage())
	}
	if p.HasNext() {
		pager.Next = PageURL(path, params, p.NextPage())
	}
	return pager
}
