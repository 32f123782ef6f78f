package format

import (
	"bytes"
	"strings"
	"testing"
)

type fakeTable struct {
	header []string
	rows   [][]string
}

func (f fakeTable) TableHeader() []string { return f.header }
func (f fakeTable) TableRows() [][]string { return f.rows }

func TestWrite_JSONDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"total": 3}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"total":3}` {
		t.Fatalf("unexpected json output: %s", got)
	}
}

func TestWrite_JSONPretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"total": 3}, "json", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"total\": 3\n") {
		t.Fatalf("expected indented output; got %s", buf.String())
	}
}

func TestWrite_CSV(t *testing.T) {
	t.Parallel()

	v := fakeTable{
		header: []string{"id", "filename"},
		rows: [][]string{
			{"1", "report.pdf"},
			{"2", "with,comma.txt"},
		},
	}
	var buf bytes.Buffer
	if err := Write(&buf, v, "csv", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "id,filename\n1,report.pdf\n2,\"with,comma.txt\"\n"
	if buf.String() != want {
		t.Fatalf("expected %q; got %q", want, buf.String())
	}
}

func TestWrite_CSVRejectsNonTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, map[string]int{"total": 3}, "csv", false)
	if err == nil || !strings.Contains(err.Error(), "csv output not supported") {
		t.Fatalf("expected csv type error; got %v", err)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, 1, "yaml", false)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error; got %v", err)
	}
}
