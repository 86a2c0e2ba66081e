// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/research-mentor/pkg/types"
)

// PubMed E-utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	pubmedSearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// PubMed queries the NCBI E-utilities in two steps: esearch for PMIDs,
// then efetch for article records.
type PubMed struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the provider identifier.
func (p *PubMed) Name() string { return "pubmed" }

// Available always reports true; E-utilities allow anonymous access.
func (p *PubMed) Available() bool { return true }

// Search runs esearch then efetch and returns parsed article records.
func (p *PubMed) Search(ctx context.Context, query string, opts SearchOptions) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	term := query
	if opts.FromYear > 0 {
		term = fmt.Sprintf("%s AND %d:3000[dp]", query, opts.FromYear)
	}

	ids, err := p.searchIDs(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return p.fetchArticles(ctx, ids)
}

func (p *PubMed) searchIDs(ctx context.Context, term string, limit int) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmax":  {fmt.Sprintf("%d", limit)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PubMed esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed esearch returned HTTP %d", resp.StatusCode)
	}

	var sr pubmedSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing PubMed esearch response: %w", err)
	}
	return sr.Result.IDList, nil
}

func (p *PubMed) fetchArticles(ctx context.Context, ids []string) ([]types.SearchResult, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedFetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PubMed efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed efetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed efetch response: %w", err)
	}

	total := len(set.Articles)
	var results []types.SearchResult
	for i, art := range set.Articles {
		cit := art.MedlineCitation
		if cit.Article.Title == "" {
			continue
		}

		r := types.SearchResult{
			Title:          strings.TrimSpace(cit.Article.Title),
			Abstract:       strings.TrimSpace(strings.Join(cit.Article.Abstract.Text, " ")),
			URL:            "https://pubmed.ncbi.nlm.nih.gov/" + cit.PMID + "/",
			Source:         "pubmed",
			Venue:          cit.Article.Journal.Title,
			RelevanceScore: rankScore(i, total),
		}

		for _, a := range cit.Article.AuthorList.Authors {
			name := strings.TrimSpace(a.ForeName + " " + a.LastName)
			if name != "" {
				r.Authors = append(r.Authors, name)
			}
		}

		if y, convErr := strconv.Atoi(cit.Article.Journal.JournalIssue.PubDate.Year); convErr == nil {
			r.Year = y
		}

		for _, eloc := range cit.Article.ELocationIDs {
			if eloc.IDType == "doi" && eloc.Value != "" {
				r.DOI = eloc.Value
			}
		}
		for _, aid := range art.PubmedData.ArticleIDs.IDs {
			switch aid.IDType {
			case "doi":
				if r.DOI == "" {
					r.DOI = aid.Value
				}
			case "pmc":
				r.PMCID = aid.Value
			}
		}

		results = append(results, r)
	}
	return results, nil
}

// PubMed E-utilities payload structures.
type pubmedSearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation pubmedCitation `xml:"MedlineCitation"`
	PubmedData      pubmedData     `xml:"PubmedData"`
}

type pubmedCitation struct {
	PMID    string `xml:"PMID"`
	Article struct {
		Title    string `xml:"ArticleTitle"`
		Abstract struct {
			Text []string `xml:"AbstractText"`
		} `xml:"Abstract"`
		Journal struct {
			Title        string `xml:"Title"`
			JournalIssue struct {
				PubDate struct {
					Year string `xml:"Year"`
				} `xml:"PubDate"`
			} `xml:"JournalIssue"`
		} `xml:"Journal"`
		AuthorList struct {
			Authors []struct {
				LastName string `xml:"LastName"`
				ForeName string `xml:"ForeName"`
			} `xml:"Author"`
		} `xml:"AuthorList"`
		ELocationIDs []struct {
			IDType string `xml:"EIdType,attr"`
			Value  string `xml:",chardata"`
		} `xml:"ELocationID"`
	} `xml:"Article"`
}

type pubmedData struct {
	ArticleIDs struct {
		IDs []struct {
			IDType string `xml:"IdType,attr"`
			Value  string `xml:",chardata"`
		} `xml:"ArticleId"`
	} `xml:"ArticleIdList"`
}
