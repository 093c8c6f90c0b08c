package dtos

import (
	"encoding/json"
	"testing"
)

func TestTrip_DecodesLooseTypes(t *testing.T) {
	raw := `{
		"entry_id": "5012",
		"placing": 3,
		"total_prize_money": "500.00",
		"gone_in": true,
		"scratch_trip": 0,
		"faults_one": 4,
		"time_one": "",
		"disqualify_status_one": null,
		"order_of_go": 7.0
	}`

	var trip Trip
	if err := json.Unmarshal([]byte(raw), &trip); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !trip.EntryID.Is(5012) {
		t.Errorf("Expected entry_id 5012, got %+v", trip.EntryID)
	}
	if !trip.GoneIn.Is(1) {
		t.Errorf("Expected gone_in to read as 1, got %+v", trip.GoneIn)
	}
	if !trip.ScratchTrip.Valid || trip.ScratchTrip.Value != 0 {
		t.Errorf("Expected scratch_trip 0, got %+v", trip.ScratchTrip)
	}
	if got := trip.TotalPrizeMoney.Display("0"); got != "500" {
		t.Errorf("Expected prize 500, got %s", got)
	}
	if trip.TimeOne.Valid {
		t.Errorf("Expected blank time_one to be absent")
	}
	if trip.DisqualifyStatusOne.Valid {
		t.Errorf("Expected null disqualify status to be absent")
	}
	if p := trip.OrderOfGo.Ptr(); p == nil || *p != 7 {
		t.Errorf("Expected order_of_go 7, got %v", p)
	}
}

func TestFlexString_TrimmedAndNumbers(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"  12A ","b":"   ","c":101}`), &v); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s := v.A.Trimmed(); s == nil || *s != "12A" {
		t.Errorf("Expected 12A, got %v", s)
	}
	if s := v.B.Trimmed(); s != nil {
		t.Errorf("Expected blank to be nil, got %q", *s)
	}
	if s := v.C.Trimmed(); s == nil || *s != "101" {
		t.Errorf("Expected 101, got %v", s)
	}
}

func TestFlexInt_GarbageIsAbsent(t *testing.T) {
	var v struct {
		A FlexInt `json:"a"`
	}
	if err := json.Unmarshal([]byte(`{"a":"n/a"}`), &v); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v.A.Valid {
		t.Errorf("Expected invalid int, got %+v", v.A)
	}
}
