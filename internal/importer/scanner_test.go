package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"dailydraft-service/internal/domain"
)

const statsPage = `<html><body>
<table id="player_stats">
<thead><tr><th>Player</th></tr></thead>
<tbody>
<tr>
  <td data-stat="player_id">00-0031234</td>
  <td data-stat="player">Deon Whitfield</td>
  <td data-stat="position">WR</td>
  <td data-stat="offense_snaps">912</td>
  <td data-stat="receptions">112</td>
  <td data-stat="receiving_yards">1,540</td>
  <td data-stat="receiving_tds">11</td>
  <td data-stat="targets">163</td>
</tr>
<tr>
  <td data-stat="player_id">00-0027777</td>
  <td data-stat="player">Sam Archer</td>
  <td data-stat="position">QB</td>
  <td data-stat="offense_snaps">1024</td>
  <td data-stat="passing_yards">4,213</td>
  <td data-stat="passing_tds">31</td>
  <td data-stat="completions">390</td>
  <td data-stat="attempts">571</td>
</tr>
<tr>
  <td data-stat="player_id">00-0031234</td>
  <td data-stat="player">Deon Whitfield</td>
  <td data-stat="position">WR</td>
  <td data-stat="receptions">20</td>
</tr>
<tr>
  <td data-stat="player_id">00-0099999</td>
  <td data-stat="player">Kick Erman</td>
  <td data-stat="position">K</td>
</tr>
<tr>
  <td data-stat="player_id"></td>
  <td data-stat="player">Ghost Row</td>
  <td data-stat="position">RB</td>
</tr>
</tbody>
</table>
</body></html>`

func TestParseSeasonTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(statsPage))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	lines := ParseSeasonTable(doc, 2014)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines (dup, kicker, and blank rows dropped), got %d", len(lines))
	}

	wr := lines[0]
	if wr.PlayerID != "00-0031234" || wr.Position != domain.WR || wr.Season != 2014 {
		t.Fatalf("unexpected WR line %+v", wr)
	}
	if wr.ReceivingYards != 1540 || wr.Receptions != 112 || wr.OffenseSnaps != 912 {
		t.Fatalf("comma-grouped values not parsed: %+v", wr)
	}

	qb := lines[1]
	if qb.Name != "Sam Archer" || qb.PassingYards != 4213 || qb.Attempts != 571 {
		t.Fatalf("unexpected QB line %+v", qb)
	}
	if qb.Receptions != 0 {
		t.Fatalf("missing cells should default to zero, got %+v", qb)
	}
}

func TestScanFetchesSeasonPage(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(statsPage))
	}))
	defer server.Close()

	scanner := NewScanner(server.Client(), server.URL)
	lines, err := scanner.Scan(context.Background(), 2014)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if gotPath != "/seasons/2014/stats.html" {
		t.Fatalf("unexpected page path %s", gotPath)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestScanFailsOnEmptyTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><table id="player_stats"><tbody></tbody></table></body></html>`))
	}))
	defer server.Close()

	scanner := NewScanner(server.Client(), server.URL)
	if _, err := scanner.Scan(context.Background(), 2014); err == nil {
		t.Fatalf("expected error for empty stats table")
	}
}
