package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mreid-dev/deckvalue/internal/models"
)

const (
	// maxDeckPages caps pagination per deck search so one huge archetype
	// can't stall a scrape run.
	maxDeckPages = 40

	scrapeTimeout = 30 * time.Second
)

// WarcryClient scrapes the deck site: the card catalog comes from its JSON
// export, deck lists from paginated HTML, and individual decks from the
// plain-text export endpoint. Requests are rate limited since the site
// throttles aggressive crawlers.
type WarcryClient struct {
	http    *resty.Client
	limiter *rate.Limiter
}

func NewWarcryClient(baseURL string, requestsPerSecond float64) *WarcryClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(scrapeTimeout).
		SetHeader("User-Agent", "deckvalue/1.0")
	return &WarcryClient{
		http:    client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// exportedCard mirrors the site's card export schema.
type exportedCard struct {
	SetNumber     int    `json:"SetNumber"`
	EternalID     int    `json:"EternalID"`
	Name          string `json:"Name"`
	Rarity        string `json:"Rarity"`
	ImageURL      string `json:"ImageUrl"`
	DetailsURL    string `json:"DetailsUrl"`
	DeckBuildable bool   `json:"DeckBuildable"`
	IsInDraftPack bool   `json:"IsInDraftPack"`
}

// FetchCards downloads the full card catalog from the site's JSON export.
// Non-buildable entries (tokens, avatars) are dropped; cards with unknown
// rarities are dropped as malformed rather than defaulted.
func (c *WarcryClient) FetchCards(ctx context.Context) ([]models.Card, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var exported []exportedCard
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&exported).
		Get("/data/cards.json")
	if err != nil {
		return nil, fmt.Errorf("fetch card export: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch card export: status %d", resp.StatusCode())
	}

	cards := make([]models.Card, 0, len(exported))
	for _, e := range exported {
		if !e.DeckBuildable || e.Name == "" {
			continue
		}
		rarity, ok := parseRarity(e.Rarity)
		if !ok {
			continue
		}
		cards = append(cards, models.Card{
			CardID:      models.CardID{SetNumber: e.SetNumber, CardNumber: e.EternalID},
			Name:        e.Name,
			Rarity:      rarity,
			ImageURL:    e.ImageURL,
			DetailsURL:  e.DetailsURL,
			InDraftPack: e.IsInDraftPack,
		})
	}
	return cards, nil
}

// FetchDecks scrapes every deck matching a search: list pages first, then the
// plain-text export for each deck found. Decks whose export fails to parse
// are skipped, not fatal.
func (c *WarcryClient) FetchDecks(ctx context.Context, search models.DeckSearch) ([]models.Deck, error) {
	var decks []models.Deck

	for page := 1; page <= maxDeckPages; page++ {
		refs, err := c.fetchDeckPage(ctx, search, page)
		if err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			break
		}

		for _, ref := range refs {
			deck, err := c.fetchDeck(ctx, search.ID, ref)
			if err != nil {
				continue
			}
			decks = append(decks, *deck)
		}
	}

	return decks, nil
}

// deckRef is one row scraped from a deck list page.
type deckRef struct {
	siteID     string
	name       string
	archetype  string
	tournament bool
	result     string
	updatedAt  time.Time
}

func (c *WarcryClient) fetchDeckPage(ctx context.Context, search models.DeckSearch, page int) ([]deckRef, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("p", strconv.Itoa(page)).
		SetQueryParam("td", strconv.Itoa(search.MaxAgeDays))
	if search.Tournament {
		req.SetQueryParam("dt", "tournament")
	}

	resp, err := req.Get("/decks")
	if err != nil {
		return nil, fmt.Errorf("fetch deck page %d: %w", page, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch deck page %d: status %d", page, resp.StatusCode())
	}

	return parseDeckListPage(resp.Body())
}

// parseDeckListPage extracts deck references from a deck list page.
func parseDeckListPage(body []byte) ([]deckRef, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse deck list page: %w", err)
	}

	var refs []deckRef
	doc.Find("tr.deck-row").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a.deck-name")
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		id := deckIDFromHref(href)
		if id == "" {
			return
		}

		ref := deckRef{
			siteID:    id,
			name:      strings.TrimSpace(link.Text()),
			archetype: strings.TrimSpace(row.Find("td.archetype").Text()),
			result:    strings.TrimSpace(row.Find("td.result").Text()),
		}
		ref.tournament = row.HasClass("tournament-deck")
		if ts, ok := row.Find("td.updated").Attr("data-timestamp"); ok {
			if unix, err := strconv.ParseInt(ts, 10, 64); err == nil {
				ref.updatedAt = time.Unix(unix, 0)
			}
		}
		refs = append(refs, ref)
	})
	return refs, nil
}

// deckIDFromHref pulls the deck identifier out of a /deck/<id>/... link.
func deckIDFromHref(href string) string {
	parts := strings.Split(strings.Trim(href, "/"), "/")
	if len(parts) < 2 || parts[0] != "deck" {
		return ""
	}
	return parts[1]
}

func (c *WarcryClient) fetchDeck(ctx context.Context, searchID string, ref deckRef) (*models.Deck, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/deck/export/" + ref.siteID)
	if err != nil {
		return nil, fmt.Errorf("fetch deck export %s: %w", ref.siteID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch deck export %s: status %d", ref.siteID, resp.StatusCode())
	}

	deckID := uuid.NewString()
	playsets := ParseDeckExport(deckID, string(resp.Body()))
	if len(playsets) == 0 {
		return nil, fmt.Errorf("deck export %s: no parseable playsets", ref.siteID)
	}

	updatedAt := ref.updatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	return &models.Deck{
		ID:           deckID,
		DeckSearchID: searchID,
		Name:         ref.name,
		Archetype:    ref.archetype,
		Tournament:   ref.tournament,
		Result:       ref.result,
		LastUpdated:  updatedAt,
		Playsets:     playsets,
	}, nil
}

// exportLineRe matches deck export lines like "4 Torch (Set1 #8)".
var exportLineRe = regexp.MustCompile(`^(\d+)\s+(.+?)\s+\(Set(\d+)\s+#(\d+)\)$`)

// ParseDeckExport parses the plain-text deck export format, one playset per
// line. Lines that don't match (section headers, market separators, foil-only
// cards without identities) are skipped silently.
func ParseDeckExport(deckID, export string) []models.Playset {
	var playsets []models.Playset
	for _, line := range strings.Split(export, "\n") {
		m := exportLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		count, _ := strconv.Atoi(m[1])
		set, _ := strconv.Atoi(m[3])
		num, _ := strconv.Atoi(m[4])
		if count <= 0 {
			continue
		}
		playsets = append(playsets, models.Playset{
			DeckID:     deckID,
			SetNumber:  set,
			CardNumber: num,
			Count:      count,
		})
	}
	return playsets
}

// parseRarity normalizes the export's rarity strings.
func parseRarity(raw string) (models.Rarity, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "common":
		return models.RarityCommon, true
	case "uncommon":
		return models.RarityUncommon, true
	case "rare":
		return models.RarityRare, true
	case "legendary":
		return models.RarityLegendary, true
	case "promo":
		return models.RarityPromo, true
	default:
		return "", false
	}
}
