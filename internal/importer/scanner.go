package importer

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"dailydraft-service/internal/domain"
)

var gamePositions = map[domain.Position]struct{}{
	domain.QB: {},
	domain.RB: {},
	domain.WR: {},
	domain.TE: {},
}

// Scanner fetches a season's stats page and extracts player stat lines.
// The page is expected to carry a player_stats table whose cells are tagged
// with data-stat attributes matching the player_seasons columns.
type Scanner struct {
	client  *http.Client
	baseURL string
}

// NewScanner wires an HTTP client; a nil client gets a 20s timeout default.
func NewScanner(client *http.Client, baseURL string) *Scanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scanner{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Scan downloads and parses the stats table for one season.
func (s *Scanner) Scan(ctx context.Context, season int) ([]domain.PlayerSeason, error) {
	pageURL := fmt.Sprintf("%s/seasons/%d/stats.html", s.baseURL, season)

	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", season, err)
	}

	lines := ParseSeasonTable(doc, season)
	if len(lines) == 0 {
		return nil, fmt.Errorf("season %d: no stat rows found at %s", season, pageURL)
	}
	return lines, nil
}

func (s *Scanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "dailydraft-importer/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// ParseSeasonTable extracts stat lines from a parsed stats page. Rows
// without a player ID or outside the game's positions are skipped; players
// traded mid-season can appear twice, so the first row per player wins
// (stats are season totals either way).
func ParseSeasonTable(doc *goquery.Document, season int) []domain.PlayerSeason {
	var lines []domain.PlayerSeason
	seen := map[string]struct{}{}

	doc.Find("table#player_stats tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := map[string]string{}
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			if key, ok := cell.Attr("data-stat"); ok {
				cells[key] = strings.TrimSpace(cell.Text())
			}
		})

		playerID := cells["player_id"]
		name := cells["player"]
		pos := domain.Position(cells["position"])
		if playerID == "" || name == "" {
			return
		}
		if _, ok := gamePositions[pos]; !ok {
			return
		}
		if _, dup := seen[playerID]; dup {
			return
		}
		seen[playerID] = struct{}{}

		lines = append(lines, domain.PlayerSeason{
			PlayerID:       playerID,
			Name:           name,
			Position:       pos,
			Season:         season,
			OffenseSnaps:   cellInt(cells, "offense_snaps"),
			PassingYards:   cellInt(cells, "passing_yards"),
			PassingTDs:     cellInt(cells, "passing_tds"),
			Completions:    cellInt(cells, "completions"),
			Attempts:       cellInt(cells, "attempts"),
			Receptions:     cellInt(cells, "receptions"),
			ReceivingYards: cellInt(cells, "receiving_yards"),
			ReceivingTDs:   cellInt(cells, "receiving_tds"),
			Targets:        cellInt(cells, "targets"),
			RushingYards:   cellInt(cells, "rushing_yards"),
			RushingTDs:     cellInt(cells, "rushing_tds"),
			Carries:        cellInt(cells, "carries"),
		})
	})

	return lines
}

func cellInt(cells map[string]string, key string) int {
	raw := strings.ReplaceAll(cells[key], ",", "")
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
