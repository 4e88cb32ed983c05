package search

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxHankkeet = "haitaton_hankkeet"

// Meili implements Indexer and Searcher via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	log     *slog.Logger
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the index. An
// unreachable server leaves the client unhealthy until the health loop
// sees it recover.
func NewMeili(url, apiKey string, log *slog.Logger) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		log:    log,
		done:   make(chan struct{}),
	}

	if _, err := m.client.Health(); err != nil {
		log.Warn("meilisearch unavailable", "url", url, "error", err)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{Uid: idxHankkeet, PrimaryKey: "id"}); err != nil {
		m.log.Debug("create index (may already exist)", "index", idxHankkeet, "error", err)
	}
	index := m.client.Index(idxHankkeet)

	filterable := []interface{}{"vaihe", "tyomaaTyyppi", "alkuPvm", "loppuPvm"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		m.log.Warn("update filterable attributes", "index", idxHankkeet, "error", err)
	}
	searchable := []string{"nimi", "hankeTunnus", "kuvaus", "tyomaaKatuosoite", "alueet"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		m.log.Warn("update searchable attributes", "index", idxHankkeet, "error", err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				m.log.Info("meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

func (m *Meili) IndexHankkeet(records []HankeRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := m.client.Index(idxHankkeet).AddDocuments(records, nil)
	return err
}

func (m *Meili) DeleteHanke(hankeTunnus string) error {
	_, err := m.client.Index(idxHankkeet).DeleteDocument(hankeTunnus, nil)
	return err
}

func (m *Meili) Search(q Query) ([]Result, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}
	req := &meili.SearchRequest{
		Limit:                 int64(q.Limit),
		Offset:                int64(q.Offset),
		AttributesToHighlight: []string{"nimi", "kuvaus"},
		HighlightPreTag:       "<mark>",
		HighlightPostTag:      "</mark>",
	}
	if q.Stage != "" {
		req.Filter = fmt.Sprintf("vaihe = %q", q.Stage)
	}

	resp, err := m.client.Index(idxHankkeet).Search(q.Text, req)
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	results := make([]Result, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		results = append(results, Result{
			HankeTunnus: decodeString(hit, "hankeTunnus"),
			Name:        firstNonBlank(decodeFormattedString(hit, "nimi"), decodeString(hit, "nimi")),
			Snippet:     firstNonBlank(decodeFormattedString(hit, "kuvaus"), decodeString(hit, "kuvaus")),
		})
	}
	return results, int(resp.EstimatedTotalHits), nil
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func decodeFormattedString(hit meili.Hit, key string) string {
	raw, ok := hit["_formatted"]
	if !ok {
		return ""
	}
	var formatted map[string]json.RawMessage
	if err := json.Unmarshal(raw, &formatted); err != nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(formatted[key], &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
