package pagination

import (
	"net/url"
	"testing"
)

var testSortFields = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

func TestFromQueryDefaults(t *testing.T) {
	p := FromQuery(url.Values{}, testSortFields, "createdAt")

	if p.SortBy != "createdAt" {
		t.Errorf("SortBy = %q, want createdAt", p.SortBy)
	}
	if p.Order != "desc" {
		t.Errorf("Order = %q, want desc", p.Order)
	}
	if p.Page != 1 {
		t.Errorf("Page = %d, want 1", p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", p.Limit, DefaultLimit)
	}
}

func TestFromQueryRejectsUnknownSort(t *testing.T) {
	q := url.Values{"sortBy": {"password_hash"}}
	p := FromQuery(q, testSortFields, "createdAt")

	if p.SortBy != "createdAt" {
		t.Errorf("SortBy = %q, want fallback createdAt", p.SortBy)
	}
	if p.SortColumn() != "created_at" {
		t.Errorf("SortColumn = %q, want created_at", p.SortColumn())
	}
}

func TestFromQueryCapsLimit(t *testing.T) {
	q := url.Values{"limit": {"5000"}}
	p := FromQuery(q, testSortFields, "createdAt")

	if p.Limit != MaxLimit {
		t.Errorf("Limit = %d, want %d", p.Limit, MaxLimit)
	}
}

func TestOffset(t *testing.T) {
	q := url.Values{"page": {"3"}, "limit": {"20"}}
	p := FromQuery(q, testSortFields, "createdAt")

	if p.Offset() != 40 {
		t.Errorf("Offset = %d, want 40", p.Offset())
	}
}

func TestNewMetadataMiddlePage(t *testing.T) {
	q := url.Values{"page": {"2"}, "limit": {"10"}}
	p := FromQuery(q, testSortFields, "createdAt")

	m := NewMetadata(35, p)

	if m.TotalPages != 4 {
		t.Errorf("TotalPages = %d, want 4", m.TotalPages)
	}
	if m.NextPage == nil || *m.NextPage != 3 {
		t.Errorf("NextPage = %v, want 3", m.NextPage)
	}
	if m.PreviousPage == nil || *m.PreviousPage != 1 {
		t.Errorf("PreviousPage = %v, want 1", m.PreviousPage)
	}
	if !m.HasNextPage || !m.HasPreviousPage {
		t.Error("expected both HasNextPage and HasPreviousPage")
	}
	if m.IsFirstPage || m.IsLastPage {
		t.Error("page 2 of 4 is neither first nor last")
	}
}

func TestNewMetadataLastPage(t *testing.T) {
	q := url.Values{"page": {"4"}, "limit": {"10"}}
	p := FromQuery(q, testSortFields, "createdAt")

	m := NewMetadata(35, p)

	if m.NextPage != nil {
		t.Errorf("NextPage = %v, want nil", *m.NextPage)
	}
	if !m.IsLastPage {
		t.Error("expected IsLastPage")
	}
	if m.Timestamp == 0 {
		t.Error("expected a timestamp")
	}
}

func TestNewMetadataSinglePage(t *testing.T) {
	p := FromQuery(url.Values{}, testSortFields, "createdAt")

	m := NewMetadata(5, p)

	if m.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", m.TotalPages)
	}
	if !m.IsFirstPage || !m.IsLastPage {
		t.Error("a single page is both first and last")
	}
	if m.NextPage != nil || m.PreviousPage != nil {
		t.Error("single page has no neighbors")
	}
}
