package pdk

import (
	"testing"
)

func TestDecodeHits(t *testing.T) {
	body := `{"took" : 3, "hits" : {"total" : {"value" : 2}, "hits" : [
		{"_id" : "a", "_source" : ` + annSource + `},
		{"_id" : "b", "_source" : {"email" : "b@x.com"}}
	]}}`

	docs, err := DecodeHits([]byte(body))
	if err != nil {
		t.Fatalf("Can't decode: %s", err.Error())
	}

	if len(docs) != 2 || docs[0].ID != "a" || docs[1].ID != "b" {
		t.Fatalf("Unexpected documents: %+v", docs)
	}

	row, err := Project(docs[0])
	if err != nil || row.FirstName != "Ann" || row.Amount != 10.5 {
		t.Errorf("Decoded source can't be projected: %+v, %v", row, err)
	}
}

func TestDecodeHitsErrors(t *testing.T) {
	tables := []string{
		`not json`,
		`{"error" : {"type" : "search_phase_execution_exception"}}`,
		`{"took" : 1}`,
		`{"hits" : {"hits" : [{"_id" : "x"}]}}`,
	}

	for _, body := range tables {
		_, err := DecodeHits([]byte(body))
		if err == nil {
			t.Errorf("Error expected for: %s", body)
		}
	}

	docs, err := DecodeHits([]byte(`{"hits" : {"hits" : []}}`))
	if err != nil || len(docs) != 0 {
		t.Errorf("Empty hits must be accepted: %+v, %v", docs, err)
	}
}
