package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	pkgerrs "github.com/ttraw/go-tiktok-api-wrapper/pkg/errors"
)

func TestNewConditionDateFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{name: "valid date", value: "20240115", wantErr: false},
		{name: "too short", value: "2024011", wantErr: true},
		{name: "too long", value: "202401150", wantErr: true},
		{name: "non-digits", value: "2024-1-5", wantErr: true},
		{name: "letters", value: "abcdefgh", wantErr: true},
		{name: "integer value", value: 20240115, wantErr: true},
		{name: "empty string", value: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewCondition(OpGTE, FieldCreateTime, tt.value)
			if tt.wantErr && err == nil {
				t.Errorf("NewCondition(create_time, %v) succeeded, want error", tt.value)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("NewCondition(create_time, %v) failed: %v", tt.value, err)
			}
		})
	}
}

func TestNewConditionNumericIDFields(t *testing.T) {
	t.Parallel()

	fields := []FieldName{FieldID, FieldMusicID, FieldEffectIDs, FieldPlaylistID}

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{name: "positive int", value: 7216561123, wantErr: false},
		{name: "positive int64", value: int64(7216561123), wantErr: false},
		{name: "numeric string", value: "7216561123", wantErr: false},
		{name: "zero", value: 0, wantErr: true},
		{name: "zero string", value: "0", wantErr: true},
		{name: "negative", value: -5, wantErr: true},
		{name: "negative string", value: "-5", wantErr: true},
		{name: "non-numeric string", value: "abc123", wantErr: true},
		{name: "float value", value: 1.5, wantErr: true},
	}

	for _, field := range fields {
		field := field
		for _, tt := range tests {
			tt := tt
			t.Run(string(field)+"/"+tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := NewCondition(OpEQ, field, tt.value)
				if tt.wantErr && err == nil {
					t.Errorf("NewCondition(%s, %v) succeeded, want error", field, tt.value)
				}
				if !tt.wantErr && err != nil {
					t.Errorf("NewCondition(%s, %v) failed: %v", field, tt.value, err)
				}
			})
		}
	}
}

func TestNewConditionUsername(t *testing.T) {
	t.Parallel()

	if _, err := NewCondition(OpEQ, FieldUsername, "some_user"); err != nil {
		t.Errorf("valid username rejected: %v", err)
	}
	if _, err := NewCondition(OpEQ, FieldUsername, "   "); err == nil {
		t.Error("whitespace-only username accepted, want error")
	}
	if _, err := NewCondition(OpEQ, FieldUsername, ""); err == nil {
		t.Error("empty username accepted, want error")
	}
	if _, err := NewCondition(OpEQ, FieldUsername, 42); err == nil {
		t.Error("integer username accepted, want error")
	}
}

func TestNewConditionRegionCode(t *testing.T) {
	t.Parallel()

	if _, err := NewCondition(OpIN, FieldRegionCode, "US", "GB", "JP"); err != nil {
		t.Errorf("valid region codes rejected: %v", err)
	}
	if _, err := NewCondition(OpIN, FieldRegionCode, "US", "ZZ"); err == nil {
		t.Error("unknown region code accepted, want error")
	}
	if _, err := NewCondition(OpEQ, FieldRegionCode, "us"); err == nil {
		t.Error("lowercase region code accepted, want error")
	}
}

func TestNewConditionVideoDuration(t *testing.T) {
	t.Parallel()

	for _, bucket := range []string{"SHORT", "MID", "LONG", "EXTRA_LONG"} {
		if _, err := NewCondition(OpEQ, FieldVideoDuration, bucket); err != nil {
			t.Errorf("bucket %s rejected: %v", bucket, err)
		}
	}
	if _, err := NewCondition(OpEQ, FieldVideoDuration, "MEDIUM"); err == nil {
		t.Error("unknown duration bucket accepted, want error")
	}
}

func TestNewConditionUnconstrainedField(t *testing.T) {
	t.Parallel()

	if _, err := NewCondition(OpIN, FieldHashtagNames, "golang", "programming"); err != nil {
		t.Errorf("string values rejected on unconstrained field: %v", err)
	}
	if _, err := NewCondition(OpGT, FieldViewCount, 1000); err != nil {
		t.Errorf("integer value rejected on unconstrained field: %v", err)
	}
	if _, err := NewCondition(OpEQ, FieldViewCount, 1.5); err == nil {
		t.Error("float accepted on unconstrained field, want error")
	}
}

func TestNewConditionNoValues(t *testing.T) {
	t.Parallel()

	if _, err := NewCondition(OpEQ, FieldUsername); err == nil {
		t.Error("condition with no values accepted, want error")
	}
}

func TestNewConditionErrorDetail(t *testing.T) {
	t.Parallel()

	_, err := NewCondition(OpEQ, FieldMusicID, "not-a-number")
	var verr *pkgerrs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error is %T, want *ValidationError", err)
	}
	if verr.Field != "music_id" {
		t.Errorf("Field = %q, want %q", verr.Field, "music_id")
	}
	if !strings.Contains(verr.Message, "positive integer") {
		t.Errorf("Message = %q, want mention of positive integer", verr.Message)
	}
}

func TestQueryBuilderGroups(t *testing.T) {
	t.Parallel()

	q, err := NewQueryBuilder().
		And(OpEQ, FieldRegionCode, "US").
		And(OpIN, FieldHashtagNames, "golang").
		Or(OpEQ, FieldVideoDuration, "SHORT").
		Not(OpEQ, FieldUsername, "excluded_user").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(q.And) != 2 {
		t.Errorf("len(And) = %d, want 2", len(q.And))
	}
	if len(q.Or) != 1 {
		t.Errorf("len(Or) = %d, want 1", len(q.Or))
	}
	if len(q.Not) != 1 {
		t.Errorf("len(Not) = %d, want 1", len(q.Not))
	}
	if q.Empty() {
		t.Error("populated query reports Empty")
	}
}

func TestQueryBuilderFirstErrorWins(t *testing.T) {
	t.Parallel()

	_, err := NewQueryBuilder().
		And(OpEQ, FieldCreateTime, "not-a-date").
		Or(OpEQ, FieldRegionCode, "also-bad").
		Build()
	if err == nil {
		t.Fatal("Build succeeded with invalid conditions")
	}

	var verr *pkgerrs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error is %T, want *ValidationError", err)
	}
	if verr.Field != "create_time" {
		t.Errorf("Field = %q, want first failing field %q", verr.Field, "create_time")
	}
}

func TestQueryEmpty(t *testing.T) {
	t.Parallel()

	q, err := NewQueryBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !q.Empty() {
		t.Error("empty query does not report Empty")
	}
}

func TestQueryJSONOmitsEmptyGroups(t *testing.T) {
	t.Parallel()

	q, err := NewQueryBuilder().And(OpEQ, FieldRegionCode, "US").Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	raw, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := decoded["and"]; !ok {
		t.Error("and group missing from JSON")
	}
	if _, ok := decoded["or"]; ok {
		t.Error("empty or group serialized")
	}
	if _, ok := decoded["not"]; ok {
		t.Error("empty not group serialized")
	}
}

func TestVideoSearchRequestBuilder(t *testing.T) {
	t.Parallel()

	req, err := NewVideoSearchRequestBuilder().
		StartDate("20240101").
		EndDate("20240131").
		MaxCount(50).
		Cursor(100).
		SearchID("prior-search").
		IsRandom(true).
		And(OpEQ, FieldRegionCode, "US").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if req.StartDate != "20240101" || req.EndDate != "20240131" {
		t.Errorf("dates = %q..%q, want 20240101..20240131", req.StartDate, req.EndDate)
	}
	if req.MaxCount != 50 {
		t.Errorf("MaxCount = %d, want 50", req.MaxCount)
	}
	if req.Cursor != 100 {
		t.Errorf("Cursor = %d, want 100", req.Cursor)
	}
	if req.SearchID != "prior-search" {
		t.Errorf("SearchID = %q, want prior-search", req.SearchID)
	}
	if !req.IsRandom {
		t.Error("IsRandom not set")
	}
	if len(req.Query.And) != 1 {
		t.Errorf("len(Query.And) = %d, want 1", len(req.Query.And))
	}
}

func TestVideoSearchRequestBuilderPropagatesConditionError(t *testing.T) {
	t.Parallel()

	_, err := NewVideoSearchRequestBuilder().
		StartDate("20240101").
		EndDate("20240131").
		And(OpEQ, FieldPlaylistID, -1).
		Build()
	if err == nil {
		t.Fatal("Build succeeded with invalid condition")
	}
}
