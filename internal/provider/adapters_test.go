// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// --- OpenReview ---

const openReviewBody = `{
  "notes": [
    {
      "id": "n1",
      "forum": "abc123",
      "cdate": 1673913600000,
      "content": {
        "title": {"value": "Sparse Attention Transformers"},
        "abstract": {"value": "We study sparse attention."},
        "venue": {"value": "ICLR 2023"},
        "authors": ["Dana Lee"]
      }
    },
    {
      "id": "n2",
      "forum": "def456",
      "cdate": 1673913600000,
      "content": {
        "title": "Unrelated Biology Note",
        "abstract": "Cell membranes and proteins."
      }
    },
    {
      "id": "n3",
      "forum": "ghi789",
      "content": {}
    }
  ]
}`

func TestOpenReviewSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(openReviewBody))
	}))
	defer ts.Close()

	orig := openReviewAPIBase
	openReviewAPIBase = ts.URL
	defer func() { openReviewAPIBase = orig }()

	p := &OpenReview{Client: ts.Client(), UserAgent: "test/0.1"}
	results, err := p.Search(context.Background(), "sparse attention", SearchOptions{Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// Only the note mentioning a query term survives; the titleless note
	// is dropped outright.
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}

	r := results[0]
	if r.Title != "Sparse Attention Transformers" {
		t.Errorf("Title = %q, want v2 value wrapper unwrapped", r.Title)
	}
	if r.URL != "https://openreview.net/forum?id=abc123" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.Venue != "ICLR 2023" {
		t.Errorf("Venue = %q", r.Venue)
	}
	if r.Year != 2023 {
		t.Errorf("Year = %d, want derived from cdate", r.Year)
	}
	if len(r.Authors) != 1 || r.Authors[0] != "Dana Lee" {
		t.Errorf("Authors = %v", r.Authors)
	}
}

func TestOpenReviewV2WrappedContent(t *testing.T) {
	body := `{
  "notes": [
    {
      "forum": "v2note",
      "cdate": 1673913600000,
      "content": {
        "title": {"value": "Efficient Attention Kernels"},
        "abstract": {"value": "A study of attention kernels."},
        "venue": {"value": "NeurIPS 2023"},
        "authors": {"value": ["Dana Lee", "Sam Wu"]}
      }
    }
  ]
}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	}))
	defer ts.Close()

	orig := openReviewAPIBase
	openReviewAPIBase = ts.URL
	defer func() { openReviewAPIBase = orig }()

	p := &OpenReview{Client: ts.Client()}
	results, err := p.Search(context.Background(), "attention", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	r := results[0]
	if r.Title != "Efficient Attention Kernels" {
		t.Errorf("Title = %q", r.Title)
	}
	if len(r.Authors) != 2 || r.Authors[0] != "Dana Lee" || r.Authors[1] != "Sam Wu" {
		t.Errorf("Authors = %v, want v2 value wrapper unwrapped", r.Authors)
	}
}

func TestOpenReviewPlainStringContent(t *testing.T) {
	body := `{"notes": [{"forum": "x1", "content": {"title": "Plain Attention Title", "abstract": "attention study"}}]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	}))
	defer ts.Close()

	orig := openReviewAPIBase
	openReviewAPIBase = ts.URL
	defer func() { openReviewAPIBase = orig }()

	p := &OpenReview{Client: ts.Client()}
	results, err := p.Search(context.Background(), "attention", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Plain Attention Title" {
		t.Errorf("results = %v, want v1 plain string accepted", results)
	}
}

// --- PubMed ---

const pubmedSearchBody = `{"esearchresult": {"idlist": ["36000001", "36000002"]}}`

const pubmedFetchBody = `<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>36000001</PMID>
      <Article>
        <Journal>
          <JournalIssue><PubDate><Year>2022</Year></PubDate></JournalIssue>
          <Title>Nature Medicine</Title>
        </Journal>
        <ArticleTitle>Deep learning for sepsis prediction</ArticleTitle>
        <Abstract>
          <AbstractText>Background text.</AbstractText>
          <AbstractText>Results text.</AbstractText>
        </Abstract>
        <AuthorList>
          <Author><LastName>Nguyen</LastName><ForeName>Minh</ForeName></Author>
        </AuthorList>
        <ELocationID EIdType="doi">10.1038/s41591-022-0001</ELocationID>
      </Article>
    </MedlineCitation>
    <PubmedData>
      <ArticleIdList>
        <ArticleId IdType="pmc">PMC9000001</ArticleId>
      </ArticleIdList>
    </PubmedData>
  </PubmedArticle>
</PubmedArticleSet>`

func TestPubMedSearch(t *testing.T) {
	var fetchIDs string
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(pubmedSearchBody))
	}))
	defer search.Close()
	fetch := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetchIDs = r.URL.Query().Get("id")
		w.Write([]byte(pubmedFetchBody))
	}))
	defer fetch.Close()

	origSearch, origFetch := pubmedSearchBase, pubmedFetchBase
	pubmedSearchBase, pubmedFetchBase = search.URL, fetch.URL
	defer func() { pubmedSearchBase, pubmedFetchBase = origSearch, origFetch }()

	p := &PubMed{Client: search.Client(), UserAgent: "test/0.1"}
	results, err := p.Search(context.Background(), "sepsis prediction", SearchOptions{Limit: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if fetchIDs != "36000001,36000002" {
		t.Errorf("efetch ids = %q, want comma-joined esearch PMIDs", fetchIDs)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}

	r := results[0]
	if r.Title != "Deep learning for sepsis prediction" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Abstract != "Background text. Results text." {
		t.Errorf("Abstract = %q, want sections joined", r.Abstract)
	}
	if r.URL != "https://pubmed.ncbi.nlm.nih.gov/36000001/" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.DOI != "10.1038/s41591-022-0001" {
		t.Errorf("DOI = %q", r.DOI)
	}
	if r.PMCID != "PMC9000001" {
		t.Errorf("PMCID = %q", r.PMCID)
	}
	if r.Venue != "Nature Medicine" {
		t.Errorf("Venue = %q", r.Venue)
	}
	if r.Year != 2022 {
		t.Errorf("Year = %d", r.Year)
	}
	if len(r.Authors) != 1 || r.Authors[0] != "Minh Nguyen" {
		t.Errorf("Authors = %v", r.Authors)
	}
}

func TestPubMedSearchNoHits(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"esearchresult": {"idlist": []}}`))
	}))
	defer search.Close()

	orig := pubmedSearchBase
	pubmedSearchBase = search.URL
	defer func() { pubmedSearchBase = orig }()

	p := &PubMed{Client: search.Client()}
	results, err := p.Search(context.Background(), "nonexistent topic", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 without an efetch call", len(results))
	}
}

// --- HAL ---

const halBody = `{
  "response": {
    "docs": [
      {
        "title_s": ["Optimisation convexe distribuée"],
        "abstract_s": ["Nous étudions l'optimisation."],
        "uri_s": "https://hal.science/hal-01234567",
        "producedDateY_i": 2021,
        "authFullName_s": ["Élodie Martin"],
        "doiId_s": "10.1000/hal.01234567",
        "journalTitle_s": "RAIRO"
      },
      {"uri_s": "https://hal.science/no-title"}
    ]
  }
}`

func TestHALSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(halBody))
	}))
	defer ts.Close()

	orig := halAPIBase
	halAPIBase = ts.URL
	defer func() { halAPIBase = orig }()

	p := &HAL{Client: ts.Client(), UserAgent: "test/0.1"}
	results, err := p.Search(context.Background(), "optimisation", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want titleless doc dropped", len(results))
	}

	r := results[0]
	if r.Title != "Optimisation convexe distribuée" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Abstract != "Nous étudions l'optimisation." {
		t.Errorf("Abstract = %q", r.Abstract)
	}
	if r.DOI != "10.1000/hal.01234567" {
		t.Errorf("DOI = %q", r.DOI)
	}
	if r.Year != 2021 {
		t.Errorf("Year = %d", r.Year)
	}
	if r.Venue != "RAIRO" {
		t.Errorf("Venue = %q", r.Venue)
	}
}

// --- Zenodo ---

const zenodoBody = `{
  "hits": {
    "hits": [
      {
        "metadata": {
          "title": "Benchmark Dataset for Robot Grasping",
          "description": "<p>A benchmark with <b>labels</b>.</p>",
          "doi": "10.5281/zenodo.7654321",
          "publication_date": "2023-04-15",
          "creators": [{"name": "Ferrari, Anna"}]
        },
        "links": {"self_html": "https://zenodo.org/records/7654321"}
      },
      {
        "metadata": {
          "title": "Early Release",
          "publication_date": "2018",
          "doi": "10.5281/zenodo.1111111"
        },
        "links": {}
      }
    ]
  }
}`

func TestZenodoSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(zenodoBody))
	}))
	defer ts.Close()

	orig := zenodoAPIBase
	zenodoAPIBase = ts.URL
	defer func() { zenodoAPIBase = orig }()

	p := &Zenodo{Client: ts.Client(), UserAgent: "test/0.1"}
	results, err := p.Search(context.Background(), "robot grasping", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	r := results[0]
	if r.Abstract != "A benchmark with labels." {
		t.Errorf("Abstract = %q, want HTML stripped", r.Abstract)
	}
	if r.URL != "https://zenodo.org/records/7654321" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.Year != 2023 {
		t.Errorf("Year = %d", r.Year)
	}
	if len(r.Authors) != 1 || r.Authors[0] != "Ferrari, Anna" {
		t.Errorf("Authors = %v", r.Authors)
	}

	// Year-only date and DOI fallback URL.
	second := results[1]
	if second.Year != 2018 {
		t.Errorf("second.Year = %d", second.Year)
	}
	if second.URL != "https://doi.org/10.5281/zenodo.1111111" {
		t.Errorf("second.URL = %q, want DOI fallback", second.URL)
	}
}

func TestZenodoFromYearFilter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(zenodoBody))
	}))
	defer ts.Close()

	orig := zenodoAPIBase
	zenodoAPIBase = ts.URL
	defer func() { zenodoAPIBase = orig }()

	p := &Zenodo{Client: ts.Client()}
	results, err := p.Search(context.Background(), "robot", SearchOptions{FromYear: 2020})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want the 2018 record filtered out", len(results))
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "no markup", "no markup"},
		{"nested tags", "<p>a <b>b</b> c</p>", "a b c"},
		{"empty", "", ""},
		{"whitespace trimmed", "  <p>x</p>  ", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripTags(tt.in); got != tt.want {
				t.Errorf("stripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// --- Semantic Scholar ---

const semanticBody = `{
  "data": [
    {
      "paperId": "p1",
      "title": "Efficient Sparse Transformers",
      "abstract": "We propose a sparse attention mechanism.",
      "url": "https://www.semanticscholar.org/paper/p1",
      "year": 2023,
      "venue": "NeurIPS",
      "citationCount": 57,
      "authors": [{"name": "Dana Lee"}, {"name": "Sam Wu"}],
      "externalIds": {"DOI": "10.5555/est", "ArXiv": "2301.04567"},
      "openAccessPdf": {"url": "https://host/est.pdf"}
    },
    {
      "paperId": "p2",
      "title": "Dense Baselines Revisited",
      "authors": [{"name": ""}]
    }
  ]
}`

func TestSemanticScholarSearch(t *testing.T) {
	var gotKey, gotYear string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotYear = r.URL.Query().Get("year")
		w.Write([]byte(semanticBody))
	}))
	defer ts.Close()

	orig := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = orig }()

	p := &SemanticScholar{Client: ts.Client(), UserAgent: "test/0.1", APIKey: "ss-key"}
	results, err := p.Search(context.Background(), "sparse transformers", SearchOptions{Limit: 10, FromYear: 2021})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotKey != "ss-key" {
		t.Errorf("x-api-key = %q, want the configured key", gotKey)
	}
	if gotYear != "2021-" {
		t.Errorf("year filter = %q, want open-ended range", gotYear)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	r := results[0]
	if r.Title != "Efficient Sparse Transformers" || r.Source != "semantic_scholar" {
		t.Errorf("result = %+v", r)
	}
	if r.DOI != "10.5555/est" || r.ArxivID != "2301.04567" {
		t.Errorf("identifiers = %q / %q", r.DOI, r.ArxivID)
	}
	if r.PDFURL != "https://host/est.pdf" {
		t.Errorf("PDFURL = %q", r.PDFURL)
	}
	if r.Citations != 57 || r.Venue != "NeurIPS" || r.Year != 2023 {
		t.Errorf("metadata = %+v", r)
	}
	if len(r.Authors) != 2 {
		t.Errorf("Authors = %v", r.Authors)
	}

	// The second paper has no URL in the payload; the paper page fills in.
	if results[1].URL != "https://www.semanticscholar.org/paper/p2" {
		t.Errorf("fallback URL = %q", results[1].URL)
	}
	if len(results[1].Authors) != 0 {
		t.Errorf("empty author names should be dropped, got %v", results[1].Authors)
	}
}

func TestSemanticScholarNoKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "" {
			t.Error("x-api-key should be absent without a configured key")
		}
		w.Write([]byte(`{"data": []}`))
	}))
	defer ts.Close()

	orig := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = orig }()

	p := &SemanticScholar{Client: ts.Client()}
	results, err := p.Search(context.Background(), "anything", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}
