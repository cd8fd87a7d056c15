package record

import (
	"testing"
)

const sampleTrack = `{
	"name": "Let's Dance",
	"duration_ms": 252000,
	"uri": "spotify:track:abc",
	"album": {"name": "Let's Dance", "uri": "spotify:album:def"},
	"artists": [{"name": "David Bowie"}, {"name": "Nile Rodgers"}],
	"weird.key": {"inner": "dotted"}
}`

func TestGet(t *testing.T) {
	rec := MustParse(sampleTrack)

	tests := []struct {
		name    string
		path    []string
		want    string
		present bool
	}{
		{"top level field", []string{"name"}, "Let's Dance", true},
		{"nested field", []string{"album", "uri"}, "spotify:album:def", true},
		{"missing top level", []string{"label"}, "", false},
		{"missing intermediate", []string{"publisher", "name"}, "", false},
		{"descend into string", []string{"uri", "id"}, "", false},
		{"descend into array", []string{"artists", "0"}, "", false},
		{"dotted field name", []string{"weird.key", "inner"}, "dotted", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := rec.Get(tt.path...)
			if v.Present() != tt.present {
				t.Errorf("Get(%v).Present() = %v, want %v", tt.path, v.Present(), tt.present)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("Get(%v).String() = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestGetEmptyPathReturnsRecord(t *testing.T) {
	rec := MustParse(sampleTrack)

	v := rec.Get()
	if !v.Present() {
		t.Fatal("empty path should return the record itself")
	}
	if v.Record().Raw() != rec.Raw() {
		t.Errorf("empty path changed the record")
	}
}

func TestMissingAlbumIsAbsent(t *testing.T) {
	rec := MustParse(`{"name": "No Album", "duration_ms": 1000}`)

	v := rec.Get("album", "name")
	if v.Present() {
		t.Fatal("expected album name to be absent")
	}
	if v.String() != "" {
		t.Errorf("absent value rendered as %q", v.String())
	}
	if v.Int() != 0 {
		t.Errorf("absent value Int() = %d", v.Int())
	}
}

func TestZeroRecord(t *testing.T) {
	var rec Record

	if rec.Exists() {
		t.Error("zero record should not exist")
	}
	if rec.Get("name").Present() {
		t.Error("lookup on zero record should be absent")
	}
	if rec.Get().Present() {
		t.Error("empty path on zero record should be absent")
	}
}

func TestInt(t *testing.T) {
	rec := MustParse(sampleTrack)

	if got := rec.Get("duration_ms").Int(); got != 252000 {
		t.Errorf("duration_ms = %d, want 252000", got)
	}
	if got := rec.Get("name").Int(); got != 0 {
		t.Errorf("non numeric Int() = %d, want 0", got)
	}
}

func TestRecordsAndStrings(t *testing.T) {
	rec := MustParse(sampleTrack)

	items, ok := rec.Get("artists").Records()
	if !ok || len(items) != 2 {
		t.Fatalf("Records() = %d items, ok=%v", len(items), ok)
	}
	if items[1].Get("name").String() != "Nile Rodgers" {
		t.Errorf("order not preserved: %q", items[1].Get("name").String())
	}

	names := rec.Get("artists").Strings("name")
	if len(names) != 2 || names[0] != "David Bowie" || names[1] != "Nile Rodgers" {
		t.Errorf("Strings(name) = %v", names)
	}

	if _, ok := rec.Get("album").Records(); ok {
		t.Error("object should not be reported as an array")
	}
	if got := rec.Get("missing").Strings("name"); got != nil {
		t.Errorf("Strings on absent value = %v, want nil", got)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte(`{"tracks":`)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if _, err := Parse([]byte(`<html></html>`)); err == nil {
		t.Fatal("expected error for non JSON body")
	}
}
