package params

import (
	"encoding/json"
	"testing"
)

func TestUpdateFieldTriState(t *testing.T) {
	type patch struct {
		Title string              `json:"-"`
		Notes UpdateField[string] `json:"notes"`
	}

	tests := []struct {
		name     string
		body     string
		wantSet  bool
		wantNull bool
		wantVal  string
	}{
		{"absent", `{}`, false, false, ""},
		{"explicit null", `{"notes": null}`, true, true, ""},
		{"value", `{"notes": "deep work"}`, true, false, "deep work"},
		{"empty string is a value", `{"notes": ""}`, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatal(err)
			}
			if p.Notes.IsSet() != tt.wantSet {
				t.Errorf("IsSet() = %v, want %v", p.Notes.IsSet(), tt.wantSet)
			}
			if p.Notes.IsNull() != tt.wantNull {
				t.Errorf("IsNull() = %v, want %v", p.Notes.IsNull(), tt.wantNull)
			}
			v, ok := p.Notes.Get()
			if ok != (tt.wantSet && !tt.wantNull) {
				t.Errorf("Get() ok = %v", ok)
			}
			if v != tt.wantVal {
				t.Errorf("Get() = %q, want %q", v, tt.wantVal)
			}
		})
	}
}

func TestApplyPtr(t *testing.T) {
	existing := "keep me"

	dst := &existing
	ApplyPtr(UpdateField[string]{}, &dst)
	if dst == nil || *dst != "keep me" {
		t.Error("unset field must leave the destination alone")
	}

	ApplyPtr(SetNull[string](), &dst)
	if dst != nil {
		t.Error("explicit null must clear the destination")
	}

	ApplyPtr(SetTo("fresh"), &dst)
	if dst == nil || *dst != "fresh" {
		t.Errorf("dst = %v, want fresh", dst)
	}
}

func TestApplyValue(t *testing.T) {
	title := "original"

	ApplyValue(UpdateField[string]{}, &title)
	if title != "original" {
		t.Error("unset field must leave the destination alone")
	}

	ApplyValue(SetNull[string](), &title)
	if title != "original" {
		t.Error("explicit null on a non-nullable field is ignored")
	}

	ApplyValue(SetTo("renamed"), &title)
	if title != "renamed" {
		t.Errorf("title = %q, want renamed", title)
	}
}

func TestUpdateFieldMarshalRoundTrip(t *testing.T) {
	raw, err := json.Marshal(SetTo(42))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "42" {
		t.Errorf("marshal = %s, want 42", raw)
	}

	raw, err = json.Marshal(SetNull[int]())
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "null" {
		t.Errorf("marshal = %s, want null", raw)
	}
}
