package umls

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/codeset/codeset/internal/platform/cache"
)

const (
	defaultAuthURL   = "https://utslogin.nlm.nih.gov/cas/v1/api-key"
	defaultSearchURL = "https://uts-ws.nlm.nih.gov/rest/search/current"

	// casService is the fixed CAS service name UMLS tickets are issued for.
	casService = "http://umlsks.nlm.nih.gov"

	ticketCacheKey = "umls:service_ticket"

	// Tickets are valid for 8 hours; cache for less to avoid using one at
	// the edge of expiry.
	ticketTTL = 7*time.Hour + 30*time.Minute

	defaultPageSize = 25
)

// defaultVocabularies filters results when the caller does not pick
// vocabularies. UMLS source abbreviations; LOINC is LNC.
var defaultVocabularies = []string{
	"ICD10CM", "SNOMEDCT_US", "ICD9CM", "RXNORM", "NDC", "ATC", "CPT", "HCPCS", "LNC",
}

var tgtActionRe = regexp.MustCompile(`action="([^"]+)"`)

// SourceAtom is the source-vocabulary code behind a search result.
type SourceAtom struct {
	Code          string `json:"code"`
	SourceConcept string `json:"sourceConcept"`
	Vocabulary    string `json:"vocabulary"`
	Term          string `json:"term"`
}

// Result is one UMLS search hit. With returnIdType=code the UI field holds
// the source code rather than a CUI.
type Result struct {
	UI            string       `json:"ui"`
	Name          string       `json:"name"`
	URI           string       `json:"uri"`
	RootSource    string       `json:"rootSource"`
	SemanticTypes []string     `json:"semanticTypes"`
	Sources       []SourceAtom `json:"sources"`
}

// SearchResponse is the proxied search payload.
type SearchResponse struct {
	Results    []Result `json:"results"`
	PageCount  int      `json:"pageCount"`
	PageNumber int      `json:"pageNumber"`
}

// Client talks to the UMLS terminology services through the CAS ticket flow.
type Client struct {
	apiKey    string
	authURL   string
	searchURL string
	http      *http.Client
	cache     cache.Cache
	logger    zerolog.Logger
}

// NewClient creates a UMLS client. Service tickets are cached in tickets;
// pass a Memory cache when Redis is not configured.
func NewClient(apiKey string, tickets cache.Cache, logger zerolog.Logger) *Client {
	if tickets == nil {
		tickets = cache.NewMemory()
	}
	return &Client{
		apiKey:    apiKey,
		authURL:   defaultAuthURL,
		searchURL: defaultSearchURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		cache:     tickets,
		logger:    logger,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Search proxies a search against the UMLS REST API. An invalid cached
// ticket is dropped and the search retried once.
func (c *Client) Search(ctx context.Context, term string, vocabularies []string, pageSize int) (*SearchResponse, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("UMLS API key not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	resp, retry, err := c.searchOnce(ctx, term, vocabularies, pageSize)
	if retry {
		c.cache.Delete(ctx, ticketCacheKey)
		c.logger.Warn().Msg("UMLS ticket rejected, retrying with a fresh one")
		resp, _, err = c.searchOnce(ctx, term, vocabularies, pageSize)
	}
	return resp, err
}

func (c *Client) searchOnce(ctx context.Context, term string, vocabularies []string, pageSize int) (*SearchResponse, bool, error) {
	ticket, err := c.serviceTicket(ctx)
	if err != nil {
		return nil, false, err
	}

	params := url.Values{}
	params.Set("string", term)
	params.Set("ticket", ticket)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("returnIdType", "code")
	if len(vocabularies) > 0 {
		params.Set("sabs", strings.Join(vocabularies, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("UMLS search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, true, fmt.Errorf("UMLS search unauthorized")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("UMLS search returned status %d", resp.StatusCode)
	}

	var raw struct {
		Result struct {
			Results []struct {
				UI            string   `json:"ui"`
				Name          string   `json:"name"`
				URI           string   `json:"uri"`
				RootSource    string   `json:"rootSource"`
				SemanticTypes []string `json:"semanticTypes"`
			} `json:"results"`
			PageCount  int `json:"pageCount"`
			PageNumber int `json:"pageNumber"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, false, fmt.Errorf("decoding UMLS response: %w", err)
	}

	filterToDefaults := len(vocabularies) == 0
	var results []Result
	for _, item := range raw.Result.Results {
		if filterToDefaults && !slices.Contains(defaultVocabularies, item.RootSource) {
			continue
		}
		results = append(results, Result{
			UI:            item.UI,
			Name:          item.Name,
			URI:           item.URI,
			RootSource:    item.RootSource,
			SemanticTypes: item.SemanticTypes,
			Sources: []SourceAtom{{
				Code:          item.UI,
				SourceConcept: item.UI,
				Vocabulary:    item.RootSource,
				Term:          item.Name,
			}},
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].RootSource != results[j].RootSource {
			return results[i].RootSource < results[j].RootSource
		}
		return results[i].UI < results[j].UI
	})

	out := &SearchResponse{
		Results:    results,
		PageCount:  raw.Result.PageCount,
		PageNumber: raw.Result.PageNumber,
	}
	if out.PageCount == 0 {
		out.PageCount = 1
	}
	if out.PageNumber == 0 {
		out.PageNumber = 1
	}
	return out, false, nil
}

// serviceTicket returns a cached service ticket or runs the two-step CAS
// flow: exchange the API key for a ticket-granting ticket, then exchange
// that for a service ticket.
func (c *Client) serviceTicket(ctx context.Context) (string, error) {
	if ticket, ok := c.cache.Get(ctx, ticketCacheKey); ok {
		return string(ticket), nil
	}

	tgtURL, err := c.ticketGrantingTicket(ctx)
	if err != nil {
		return "", err
	}

	form := url.Values{"service": {casService}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tgtURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("UMLS service ticket request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("UMLS service ticket request returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	ticket := strings.TrimSpace(string(body))
	if ticket == "" {
		return "", fmt.Errorf("UMLS returned an empty service ticket")
	}

	c.cache.Set(ctx, ticketCacheKey, []byte(ticket), ticketTTL)
	c.logger.Debug().Msg("obtained new UMLS service ticket")
	return ticket, nil
}

func (c *Client) ticketGrantingTicket(ctx context.Context) (string, error) {
	form := url.Values{"apikey": {c.apiKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("UMLS TGT request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("UMLS TGT request returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	// The TGT URL comes back as the action of an HTML form.
	m := tgtActionRe.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("no TGT URL in UMLS response")
	}
	return string(m[1]), nil
}
