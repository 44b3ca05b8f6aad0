package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	pkgerrs "github.com/ttraw/go-tiktok-api-wrapper/pkg/errors"
)

// Operation is a comparison operator used in a query condition.
type Operation string

const (
	OpEQ  Operation = "EQ"
	OpIN  Operation = "IN"
	OpGT  Operation = "GT"
	OpGTE Operation = "GTE"
	OpLT  Operation = "LT"
	OpLTE Operation = "LTE"
)

// FieldName identifies the video attribute a condition filters on. The set
// mirrors the queryable fields of the video search endpoint.
type FieldName string

const (
	FieldID               FieldName = "id"
	FieldVideoDescription FieldName = "video_description"
	FieldCreateTime       FieldName = "create_time"
	FieldRegionCode       FieldName = "region_code"
	FieldShareCount       FieldName = "share_count"
	FieldViewCount        FieldName = "view_count"
	FieldLikeCount        FieldName = "like_count"
	FieldCommentCount     FieldName = "comment_count"
	FieldMusicID          FieldName = "music_id"
	FieldHashtagNames     FieldName = "hashtag_names"
	FieldUsername         FieldName = "username"
	FieldEffectIDs        FieldName = "effect_ids"
	FieldPlaylistID       FieldName = "playlist_id"
	FieldVoiceToText      FieldName = "voice_to_text"
	FieldIsSTEMVerified   FieldName = "is_stem_verified"
	FieldFavoritesCount   FieldName = "favorites_count"
	FieldVideoDuration    FieldName = "video_duration"
)

var dateValueRegex = regexp.MustCompile(`^\d{8}$`)

// Condition is a single field/operator/values predicate in a query tree.
// Conditions are validated when constructed via NewCondition; a Condition
// obtained from that constructor is always well-formed.
type Condition struct {
	Operation   Operation `json:"operation"`
	FieldName   FieldName `json:"field_name"`
	FieldValues []any     `json:"field_values"`
}

// NewCondition builds a Condition and validates the values against the
// per-field rules of the Research API. Invalid conditions are rejected here,
// at construction time, so they can never reach a query tree.
func NewCondition(op Operation, field FieldName, values ...any) (Condition, error) {
	c := Condition{Operation: op, FieldName: field, FieldValues: values}
	if len(values) == 0 {
		return Condition{}, &pkgerrs.ValidationError{
			Field:   string(field),
			Message: "condition requires at least one value",
		}
	}
	if err := validateConditionValues(field, values); err != nil {
		return Condition{}, err
	}
	return c, nil
}

// validateConditionValues enforces the per-field value rules:
//
//	create_time        string matching YYYYMMDD
//	username           non-empty string after trimming
//	region_code        member of the closed region-code set
//	video_duration     one of the named duration buckets
//	id, music_id,
//	effect_ids,
//	playlist_id        positive integer (numeric strings accepted)
//	everything else    plain string or integer
func validateConditionValues(field FieldName, values []any) error {
	for _, v := range values {
		switch field {
		case FieldCreateTime:
			s, ok := v.(string)
			if !ok || !dateValueRegex.MatchString(s) {
				return &pkgerrs.ValidationError{
					Field:   string(field),
					Message: fmt.Sprintf("invalid create_time value %v: must be a string in YYYYMMDD format", v),
				}
			}
		case FieldUsername:
			s, ok := v.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return &pkgerrs.ValidationError{
					Field:   string(field),
					Message: "username must be a non-empty string",
				}
			}
		case FieldRegionCode:
			s, ok := v.(string)
			if !ok || !IsValidRegionCode(s) {
				return &pkgerrs.ValidationError{
					Field:   string(field),
					Message: fmt.Sprintf("invalid region_code %v: must be a valid region code", v),
				}
			}
		case FieldVideoDuration:
			s, ok := v.(string)
			if !ok || !IsValidVideoLength(s) {
				return &pkgerrs.ValidationError{
					Field:   string(field),
					Message: fmt.Sprintf("invalid video_duration %v: must be one of SHORT, MID, LONG, EXTRA_LONG", v),
				}
			}
		case FieldID, FieldMusicID, FieldEffectIDs, FieldPlaylistID:
			if err := validatePositiveID(field, v); err != nil {
				return err
			}
		default:
			switch v.(type) {
			case string, int, int32, int64:
			default:
				return &pkgerrs.ValidationError{
					Field:   string(field),
					Message: fmt.Sprintf("invalid value %v: must be a string or integer", v),
				}
			}
		}
	}
	return nil
}

// validatePositiveID accepts positive integers and numeric strings that
// parse to positive integers.
func validatePositiveID(field FieldName, v any) error {
	invalid := func() error {
		return &pkgerrs.ValidationError{
			Field:   string(field),
			Message: fmt.Sprintf("invalid %s value %v: must be a positive integer", field, v),
		}
	}

	switch n := v.(type) {
	case int:
		if n <= 0 {
			return invalid()
		}
	case int32:
		if n <= 0 {
			return invalid()
		}
	case int64:
		if n <= 0 {
			return invalid()
		}
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil || parsed <= 0 {
			return invalid()
		}
	default:
		return invalid()
	}
	return nil
}

// Query is a boolean combination of conditions: the and, or and not lists
// are each joined internally and combined with each other. Empty lists are
// omitted from the wire format; a query with all three lists empty is
// invalid and rejected before any network call.
type Query struct {
	And []Condition `json:"and,omitempty"`
	Or  []Condition `json:"or,omitempty"`
	Not []Condition `json:"not,omitempty"`
}

// Empty reports whether all three condition lists are empty.
func (q Query) Empty() bool {
	return len(q.And) == 0 && len(q.Or) == 0 && len(q.Not) == 0
}

// QueryBuilder assembles validated conditions into a Query. Conditions are
// validated as they are added; the first invalid condition poisons the
// builder and is reported by Build.
type QueryBuilder struct {
	and []Condition
	or  []Condition
	not []Condition
	err error
}

// NewQueryBuilder returns an empty QueryBuilder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// And appends a condition to the AND group.
func (b *QueryBuilder) And(op Operation, field FieldName, values ...any) *QueryBuilder {
	b.add(&b.and, op, field, values)
	return b
}

// Or appends a condition to the OR group.
func (b *QueryBuilder) Or(op Operation, field FieldName, values ...any) *QueryBuilder {
	b.add(&b.or, op, field, values)
	return b
}

// Not appends a condition to the NOT group.
func (b *QueryBuilder) Not(op Operation, field FieldName, values ...any) *QueryBuilder {
	b.add(&b.not, op, field, values)
	return b
}

func (b *QueryBuilder) add(list *[]Condition, op Operation, field FieldName, values []any) {
	if b.err != nil {
		return
	}
	cond, err := NewCondition(op, field, values...)
	if err != nil {
		b.err = err
		return
	}
	*list = append(*list, cond)
}

// Build returns the assembled Query, or the first validation error
// encountered while adding conditions. Build does not require the query to
// be non-empty; that invariant is enforced when the query is sent.
func (b *QueryBuilder) Build() (Query, error) {
	if b.err != nil {
		return Query{}, b.err
	}
	return Query{And: b.and, Or: b.or, Not: b.not}, nil
}

// VideoSearchRequest is the payload of the video search endpoint.
type VideoSearchRequest struct {
	Query     Query  `json:"query" validate:"required"`
	StartDate string `json:"start_date" validate:"required,len=8,number"`
	EndDate   string `json:"end_date" validate:"required,len=8,number"`
	MaxCount  int    `json:"max_count,omitempty" validate:"omitempty,gte=1,lte=100"`
	Cursor    int64  `json:"cursor,omitempty" validate:"omitempty,gte=0"`
	SearchID  string `json:"search_id,omitempty"`
	IsRandom  bool   `json:"is_random,omitempty"`
}

// VideoSearchRequestBuilder builds a VideoSearchRequest fluently, embedding
// a QueryBuilder for the filter tree.
type VideoSearchRequestBuilder struct {
	query     *QueryBuilder
	startDate string
	endDate   string
	maxCount  int
	cursor    int64
	searchID  string
	isRandom  bool
}

// NewVideoSearchRequestBuilder returns a builder with an empty query tree.
func NewVideoSearchRequestBuilder() *VideoSearchRequestBuilder {
	return &VideoSearchRequestBuilder{query: NewQueryBuilder()}
}

// StartDate sets the lower bound of video creation time (YYYYMMDD).
func (b *VideoSearchRequestBuilder) StartDate(d string) *VideoSearchRequestBuilder {
	b.startDate = d
	return b
}

// EndDate sets the upper bound of video creation time (YYYYMMDD). It must be
// no more than 30 days after the start date.
func (b *VideoSearchRequestBuilder) EndDate(d string) *VideoSearchRequestBuilder {
	b.endDate = d
	return b
}

// MaxCount sets the maximum number of videos per response (1 to 100).
func (b *VideoSearchRequestBuilder) MaxCount(n int) *VideoSearchRequestBuilder {
	b.maxCount = n
	return b
}

// Cursor sets the index to resume results from.
func (b *VideoSearchRequestBuilder) Cursor(c int64) *VideoSearchRequestBuilder {
	b.cursor = c
	return b
}

// SearchID resumes a prior cached search.
func (b *VideoSearchRequestBuilder) SearchID(id string) *VideoSearchRequestBuilder {
	b.searchID = id
	return b
}

// IsRandom requests results in random order.
func (b *VideoSearchRequestBuilder) IsRandom(r bool) *VideoSearchRequestBuilder {
	b.isRandom = r
	return b
}

// And appends a condition to the query's AND group.
func (b *VideoSearchRequestBuilder) And(op Operation, field FieldName, values ...any) *VideoSearchRequestBuilder {
	b.query.And(op, field, values...)
	return b
}

// Or appends a condition to the query's OR group.
func (b *VideoSearchRequestBuilder) Or(op Operation, field FieldName, values ...any) *VideoSearchRequestBuilder {
	b.query.Or(op, field, values...)
	return b
}

// Not appends a condition to the query's NOT group.
func (b *VideoSearchRequestBuilder) Not(op Operation, field FieldName, values ...any) *VideoSearchRequestBuilder {
	b.query.Not(op, field, values...)
	return b
}

// Build assembles the request. It surfaces the first condition validation
// error recorded by the embedded query builder; full request validation
// (date formats, max count bounds, non-empty query) happens in the request
// pipeline before the request is sent.
func (b *VideoSearchRequestBuilder) Build() (*VideoSearchRequest, error) {
	q, err := b.query.Build()
	if err != nil {
		return nil, err
	}
	return &VideoSearchRequest{
		Query:     q,
		StartDate: b.startDate,
		EndDate:   b.endDate,
		MaxCount:  b.maxCount,
		Cursor:    b.cursor,
		SearchID:  b.searchID,
		IsRandom:  b.isRandom,
	}, nil
}
