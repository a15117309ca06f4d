package ir

import (
	"testing"
)

func TestMakeNode(t *testing.T) {
	anchored := FromString("old")
	anchored.Anchor = "keep"

	tests := []struct {
		name     string
		source   *Node
		value    any
		style    Style
		wantType Type
		wantVal  string
		wantErr  bool
	}{
		{"default infers int", nil, "42", DefaultStyle, NumberType, "42", false},
		{"default infers float", nil, "3.14", DefaultStyle, NumberType, "3.14", false},
		{"default infers bool", nil, "true", DefaultStyle, BoolType, "true", false},
		{"default keeps string", nil, "hello", DefaultStyle, StringType, "hello", false},
		{"dquote forces string", nil, 42, DoubleQuotedStyle, StringType, "42", false},
		{"int coerces", nil, "7", IntStyle, NumberType, "7", false},
		{"int rejects text", nil, "seven", IntStyle, NullType, "", true},
		{"float coerces", nil, "2.5", FloatStyle, NumberType, "2.5", false},
		{"float rejects text", nil, "pi", FloatStyle, NullType, "", true},
		{"boolean accepts yes", nil, "yes", BooleanStyle, BoolType, "true", false},
		{"boolean rejects text", nil, "maybe", BooleanStyle, NullType, "", true},
		{"date", nil, "2020-10-31", DateStyle, TimestampType, "2020-10-31", false},
		{"timestamp rejects text", nil, "soon", TimestampStyle, NullType, "", true},
		{"anchor carries over", anchored, "new", DefaultStyle, StringType, "new", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MakeNode(tt.source, tt.value, tt.style)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("MakeNode(%v, %s) = %v, want error", tt.value, tt.style, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("MakeNode(%v, %s): %v", tt.value, tt.style, err)
			}
			if got.Type != tt.wantType {
				t.Errorf("type = %s, want %s", got.Type, tt.wantType)
			}
			if got.Scalar() != tt.wantVal {
				t.Errorf("value = %q, want %q", got.Scalar(), tt.wantVal)
			}
			if tt.source != nil && got.Anchor != tt.source.Anchor {
				t.Errorf("anchor = %q, want %q", got.Anchor, tt.source.Anchor)
			}
		})
	}
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ref", "!ref"},
		{"!ref", "!ref"},
		{"!!str", "!!str"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTag(tt.in); got != tt.want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAppendListElement(t *testing.T) {
	list := FromSlice([]*Node{FromInt(1)})
	ele := AppendListElement(list, FromInt(2), "two")
	if len(list.Values) != 2 {
		t.Fatalf("len = %d, want 2", len(list.Values))
	}
	if list.Values[1] != ele {
		t.Errorf("appended element not last")
	}
	if ele.Anchor != "two" {
		t.Errorf("anchor = %q, want %q", ele.Anchor, "two")
	}
}
