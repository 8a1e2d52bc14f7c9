package csvparser

import (
	"testing"

	"voicecat/internal/domain"
)

func TestParse(t *testing.T) {
	data := "\xEF\xBB\xBFSKU, Transcript ,Language\n" +
		"s1,purawai 500 rupai,TA\n" +
		",manjal podi 100 rupai,\n" +
		"s3,   ,hi\n" +
		"s4,\"keemat 200, kapda\"\n"
	res, err := New().Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []domain.BatchItem{
		{Key: "s1", Text: "purawai 500 rupai", LanguageHint: domain.Tamil},
		{Key: "row-2", Text: "manjal podi 100 rupai"},
		{Key: "s4", Text: "keemat 200, kapda"},
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

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "key,language\nk,ta\n"} {
		if _, err := New().Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}
