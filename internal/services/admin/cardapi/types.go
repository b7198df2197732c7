package cardapi

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// IdentifierLength is the exact length of an OIB.
const IdentifierLength = 11

// CardStatus is the lifecycle stage of a credit-card application.
type CardStatus string

const (
	StatusPending    CardStatus = "PENDING"
	StatusApproved   CardStatus = "APPROVED"
	StatusRejected   CardStatus = "REJECTED"
	StatusInProgress CardStatus = "IN_PROGRESS"
	StatusCompleted  CardStatus = "COMPLETED"
)

// Statuses lists the statuses an operator may assign, in display order.
func Statuses() []CardStatus {
	return []CardStatus{StatusPending, StatusApproved, StatusRejected, StatusInProgress, StatusCompleted}
}

// ParseCardStatus normalizes value and reports whether it is an assignable status.
func ParseCardStatus(value string) (CardStatus, bool) {
	candidate := CardStatus(strings.ToUpper(strings.TrimSpace(value)))
	for _, status := range Statuses() {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

// SortField is a column the backend can order clients by.
type SortField string

const (
	SortByFirstName SortField = "firstName"
	SortByLastName  SortField = "lastName"
	SortByCreatedAt SortField = "createdAt"
)

// SortFields lists the supported sort columns in display order.
func SortFields() []SortField {
	return []SortField{SortByFirstName, SortByLastName, SortByCreatedAt}
}

// ParseSortField reports whether value names a supported sort column.
func ParseSortField(value string) (SortField, bool) {
	for _, field := range SortFields() {
		if string(field) == strings.TrimSpace(value) {
			return field, true
		}
	}
	return "", false
}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection reports whether value names a sort direction.
func ParseDirection(value string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case Ascending:
		return Ascending, true
	case Descending:
		return Descending, true
	default:
		return "", false
	}
}

// PageSizes lists the page sizes offered to operators.
func PageSizes() []int {
	return []int{5, 10, 20, 50}
}

// ValidPageSize reports whether size is one of PageSizes.
func ValidPageSize(size int) bool {
	for _, candidate := range PageSizes() {
		if candidate == size {
			return true
		}
	}
	return false
}

// Client is a card applicant as stored by the backend.
type Client struct {
	ID         int64      `json:"id,omitempty"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Identifier string     `json:"oib"`
	CardStatus CardStatus `json:"cardStatus"`
	CreatedAt  Timestamp  `json:"createdAt"`
	UpdatedAt  Timestamp  `json:"updatedAt"`
}

// DisplayName joins first and last name.
func (c Client) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// NewClient is the create-client request body.
type NewClient struct {
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Identifier string     `json:"oib"`
	CardStatus CardStatus `json:"cardStatus"`
}

// CardRequest is the body forwarded to POST /card-requests.
type CardRequest struct {
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Identifier string     `json:"oib"`
	Status     CardStatus `json:"status,omitempty"`
}

// CardRequestFromClient builds a card request mirroring an existing client.
func CardRequestFromClient(client Client) CardRequest {
	return CardRequest{
		FirstName:  client.FirstName,
		LastName:   client.LastName,
		Identifier: client.Identifier,
		Status:     client.CardStatus,
	}
}

// ListQuery selects one page of clients.
type ListQuery struct {
	Page      int
	Size      int
	SortBy    SortField
	Direction Direction
}

// DefaultListQuery returns the first page with the console defaults.
func DefaultListQuery() ListQuery {
	return ListQuery{Page: 0, Size: 10, SortBy: SortByFirstName, Direction: Ascending}
}

// Page is one slice of the sorted client listing.
type Page struct {
	Content     []Client `json:"content"`
	CurrentPage int      `json:"currentPage"`
	TotalPages  int      `json:"totalPages"`
	TotalItems  int64    `json:"totalItems"`
	PageSize    int      `json:"pageSize"`
	First       bool     `json:"first"`
	Last        bool     `json:"last"`
}

// statusUpdate is the PATCH /clients/{oib}/status body.
type statusUpdate struct {
	Status CardStatus `json:"status"`
}

// errorBody captures the optional message fields of a backend error response.
type errorBody struct {
	Message     string `json:"message"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

func (b errorBody) text() string {
	if message := strings.TrimSpace(b.Message); message != "" {
		return message
	}
	return strings.TrimSpace(b.Description)
}

// timestampLayouts are tried in order; zone-less values are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp decodes the backend's ISO local date-times as well as RFC 3339.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
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
	return &time.ParseError{Layout: time.RFC3339, Value: raw, Message: ": unsupported timestamp"}
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
