package jsonl

import (
	"strings"
	"testing"

	"voicecat/internal/domain"
)

func TestParseLines(t *testing.T) {
	data := `{"key":"a","text":"purawai 500 rupai","language":"TA"}

{"id":"b","text":"kapda 300 rupaye"}
{"text":"   "}
{"text":"arisi 5 kg"}
`
	res, err := New().Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []domain.BatchItem{
		{Key: "a", Text: "purawai 500 rupai", LanguageHint: domain.Tamil},
		{Key: "b", Text: "kapda 300 rupaye"},
		{Key: "line-5", Text: "arisi 5 kg"},
	}
	if len(res.Items) != len(want) {
		t.Fatalf("Items = %+v", res.Items)
	}
	for i := range want {
		if res.Items[i] != want[i] {
			t.Errorf("Items[%d] = %+v, want %+v", i, res.Items[i], want[i])
		}
	}
}

func TestParseFlatObject(t *testing.T) {
	res, err := New().Parse([]byte(`{"$schema":"x","z":"manjal","a":"ennai","n":3}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 2 || res.Items[0].Key != "a" || res.Items[1].Text != "manjal" {
		t.Errorf("Items = %+v", res.Items)
	}
}

func TestParseInvalidLine(t *testing.T) {
	_, err := New().Parse([]byte("{\"text\":\"a\"}\nnot json\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %v", err)
	}
}
