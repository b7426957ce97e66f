package adminapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// IntentType is the closed set of routing behaviors an intent keyword can
// map to. The backend may hold legacy values outside this set; those decode
// fine and display as-is.
type IntentType string

const (
	IntentRAGSearch IntentType = "rag_search"
	IntentSQLQuery  IntentType = "sql_query"
	IntentGeneral   IntentType = "general"
)

// KnownIntentTypes returns the supported intent types in display order.
func KnownIntentTypes() []IntentType {
	return []IntentType{IntentRAGSearch, IntentSQLQuery, IntentGeneral}
}

// Known reports whether t is one of the supported intent types.
func (t IntentType) Known() bool {
	switch t {
	case IntentRAGSearch, IntentSQLQuery, IntentGeneral:
		return true
	}
	return false
}

// Label returns a short human label. Empty values read "unclassified";
// unknown non-empty values pass through untouched.
func (t IntentType) Label() string {
	switch t {
	case IntentRAGSearch:
		return "RAG search"
	case IntentSQLQuery:
		return "SQL query"
	case IntentGeneral:
		return "general chat"
	case "":
		return "unclassified"
	}
	return string(t)
}

// Timestamp wraps time.Time to accept the backend's timestamp flavors:
// RFC3339 with or without zone offset, with or without fractional seconds.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Intent is a keyword→behavior mapping record. Priority disambiguates
// overlapping keywords, higher preferred.
type Intent struct {
	ID          int64      `json:"id"`
	Keyword     string     `json:"keyword"`
	IntentType  IntentType `json:"intent_type"`
	Priority    int        `json:"priority"`
	Description string     `json:"description,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
	UpdatedAt   Timestamp  `json:"updated_at"`
}

// IntentRequest is the shared body shape for intent create and update.
type IntentRequest struct {
	Keyword     string     `json:"keyword"`
	IntentType  IntentType `json:"intent_type"`
	Priority    int        `json:"priority"`
	Description string     `json:"description,omitempty"`
}

// QueryLog is a persisted record of a past user query. Immutable except for
// the conversion flag, which the backend flips once on promotion.
type QueryLog struct {
	ID                 int64      `json:"id"`
	QueryText          string     `json:"query_text"`
	DetectedIntent     IntentType `json:"detected_intent,omitempty"`
	Response           string     `json:"response,omitempty"`
	ConvertedToFewShot bool       `json:"is_converted_to_fewshot"`
	CreatedAt          Timestamp  `json:"created_at"`
}

// QueryLogList is the paginated list envelope for query logs.
type QueryLogList struct {
	Total int        `json:"total"`
	Items []QueryLog `json:"items"`
}

// QueryLogFilters are the three composable server-side list criteria plus
// the page cap.
type QueryLogFilters struct {
	Intent        IntentType
	ConvertedOnly bool
	Search        string
	Limit         int
}

// Values encodes the filters as query parameters. Zero-valued criteria are
// omitted so the backend applies no filter for them.
func (f QueryLogFilters) Values() url.Values {
	values := url.Values{}
	if f.Intent != "" {
		values.Set("intent", string(f.Intent))
	}
	if f.ConvertedOnly {
		values.Set("converted_only", "true")
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	values.Set("limit", strconv.Itoa(limit))
	return values
}

// IntentCount is one row of the per-intent stats breakdown.
type IntentCount struct {
	Intent string `json:"intent"`
	Count  int    `json:"count"`
}

// QueryLogStats is the aggregate summary returned by /api/query-logs/stats/summary.
type QueryLogStats struct {
	TotalQueries       int           `json:"total_queries"`
	ConvertedToFewShot int           `json:"converted_to_fewshot"`
	ConversionRate     float64       `json:"conversion_rate"`
	ByIntent           []IntentCount `json:"by_intent"`
}

// ConvertRequest promotes a query log into a few-shot example.
type ConvertRequest struct {
	QueryLogID       int64      `json:"query_log_id"`
	IntentType       IntentType `json:"intent_type,omitempty"`
	ExpectedResponse string     `json:"expected_response,omitempty"`
	IsActive         bool       `json:"is_active"`
}

// ConvertResult reports the ids involved in a successful promotion.
type ConvertResult struct {
	Message    string `json:"message"`
	FewShotID  int64  `json:"few_shot_id"`
	QueryLogID int64  `json:"query_log_id"`
}

// FewShot is a curated (query, expected response) pair. Active examples are
// injected into the model's prompt context by the backend.
type FewShot struct {
	ID               int64      `json:"id"`
	SourceQueryLogID int64      `json:"source_query_log_id,omitempty"`
	IntentType       IntentType `json:"intent_type,omitempty"`
	UserQuery        string     `json:"user_query"`
	ExpectedResponse string     `json:"expected_response,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        Timestamp  `json:"created_at"`
	UpdatedAt        Timestamp  `json:"updated_at"`
}

// FewShotFilters are the server-side few-shot list criteria.
type FewShotFilters struct {
	IntentType IntentType
	ActiveOnly bool
}

func (f FewShotFilters) Values() url.Values {
	values := url.Values{}
	if f.IntentType != "" {
		values.Set("intent_type", string(f.IntentType))
	}
	if f.ActiveOnly {
		values.Set("is_active", "true")
	}
	return values
}

// FewShotUpdate is a partial update body. Only non-nil fields are sent, so
// an active toggle carries exactly the inverted boolean and nothing else.
type FewShotUpdate struct {
	IntentType       *IntentType `json:"intent_type,omitempty"`
	UserQuery        *string     `json:"user_query,omitempty"`
	ExpectedResponse *string     `json:"expected_response,omitempty"`
	IsActive         *bool       `json:"is_active,omitempty"`
}

// AuditAction is the kind of change recorded in a few-shot audit row.
type AuditAction string

const (
	AuditInsert AuditAction = "INSERT"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// FewShotAudit is one append-only audit trail row. Old and new values are
// opaque snapshots; the console never interprets them beyond display.
type FewShotAudit struct {
	ID        int64           `json:"id"`
	FewShotID int64           `json:"few_shot_id"`
	Action    AuditAction     `json:"action"`
	OldValue  json.RawMessage `json:"old_value,omitempty"`
	NewValue  json.RawMessage `json:"new_value,omitempty"`
	ChangedBy string          `json:"changed_by,omitempty"`
	CreatedAt Timestamp       `json:"created_at"`
}

// DocumentMetadata is the optional per-document payload stored alongside the
// vector points.
type DocumentMetadata struct {
	Filename   string    `json:"filename,omitempty"`
	UploadTime Timestamp `json:"upload_time,omitempty"`
	FileSize   int64     `json:"file_size,omitempty"`
}

// Document is an indexed source document owned by the vector store.
type Document struct {
	ID       string           `json:"id"`
	Text     string           `json:"text"`
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentList is the paginated list envelope for documents.
type DocumentList struct {
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	Documents []Document `json:"documents"`
}

// CollectionInfo is a read-only snapshot of the vector collection.
type CollectionInfo struct {
	Name        string `json:"name"`
	PointsCount int64  `json:"points_count"`
	VectorSize  int    `json:"vector_size"`
	Distance    string `json:"distance"`
}

// DisplayName prefers the stored filename, falling back to a truncated id.
func (d Document) DisplayName() string {
	if d.Metadata.Filename != "" {
		return d.Metadata.Filename
	}
	if len(d.ID) > 12 {
		return d.ID[:12]
	}
	return d.ID
}

// Preview returns a single-line excerpt of the document text.
func (d Document) Preview(maxLen int) string {
	text := strings.TrimSpace(d.Text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
