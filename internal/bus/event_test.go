package bus

import "testing"

func TestDecodeEvent_RoundTripsStringPayload(t *testing.T) {
	ev, err := decodeEvent(map[string]interface{}{
		"key":     "chef_jane",
		"payload": `{"date":"2026-01-01","title":"Soup","author":"chef_jane","num_comments":3,"text":"...","char_count":42}`,
	})
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	if ev.Author != "chef_jane" || ev.Title != "Soup" || ev.CharCount != 42 {
		t.Fatalf("decoded event mismatch: %+v", ev)
	}
}

func TestDecodeEvent_MissingPayload(t *testing.T) {
	if _, err := decodeEvent(map[string]interface{}{"key": "x"}); err == nil {
		t.Fatalf("expected error for missing payload field")
	}
}

func TestDecodeEvent_UnsupportedPayloadType(t *testing.T) {
	if _, err := decodeEvent(map[string]interface{}{"payload": 42}); err == nil {
		t.Fatalf("expected error for non-string payload")
	}
}
