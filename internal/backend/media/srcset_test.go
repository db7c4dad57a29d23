package media

import (
	"testing"
)

func TestBuildSourceSet_AscendingOrder(t *testing.T) {
	resolver := StaticResolver{Prefix: "/static"}
	variants := VariantSet{
		768: "uploads/produtos/b-768.webp",
		480: "uploads/produtos/a-480.webp",
	}

	got := BuildSourceSet(variants, resolver)
	expected := "/static/uploads/produtos/a-480.webp 480w, /static/uploads/produtos/b-768.webp 768w"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestBuildSourceSet_NumericNotLexicalOrder(t *testing.T) {
	variants := VariantSet{1024: "c", 480: "a", 768: "b"}
	got := BuildSourceSet(variants, StaticResolver{Prefix: "/s/"})
	expected := "/s/a 480w, /s/b 768w, /s/c 1024w"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestBuildSourceSet_Empty(t *testing.T) {
	if got := BuildSourceSet(VariantSet{}, StaticResolver{Prefix: "/static"}); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := BuildSourceSet(nil, StaticResolver{Prefix: "/static"}); got != "" {
		t.Errorf("expected empty string for nil set, got %q", got)
	}
}

func TestVariantSet_Preferred(t *testing.T) {
	heroOrder := []int{2560, 1920, 1440, 1024, 768, 480}

	tests := []struct {
		name     string
		set      VariantSet
		order    []int
		expected string
		ok       bool
	}{
		{"Canonical width present", VariantSet{480: "a", 768: "b", 1024: "c"}, []int{768}, "b", true},
		{"Falls back to smallest", VariantSet{1024: "c", 600: "n"}, []int{768}, "n", true},
		{"Hero prefers largest", VariantSet{480: "a", 1440: "d", 1920: "e"}, heroOrder, "e", true},
		{"No preference", VariantSet{1024: "c", 480: "a"}, nil, "a", true},
		{"Empty set", VariantSet{}, []int{768}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.set.Preferred(tt.order...)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.expected, tt.ok, got, ok)
			}
		})
	}
}

func TestVariantSet_MarshalParse(t *testing.T) {
	set := VariantSet{480: "produtos/foo-480.webp", 768: "produtos/foo-768.webp"}
	raw, err := set.Marshal()
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	expected := `{"480":"produtos/foo-480.webp","768":"produtos/foo-768.webp"}`
	if raw != expected {
		t.Errorf("expected %s, got %s", expected, raw)
	}

	parsed, err := ParseVariantSet(`{"768": "produtos/foo-768.webp", "480": "produtos/foo-480.webp"}`)
	if err != nil {
		t.Fatalf("ParseVariantSet error: %v", err)
	}
	if len(parsed) != 2 || parsed[480] != set[480] || parsed[768] != set[768] {
		t.Errorf("unexpected parse result %v", parsed)
	}
}

func TestParseVariantSet_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Not JSON", "not json"},
		{"Array", `["a","b"]`},
		{"Non numeric key", `{"large":"a.webp"}`},
		{"Negative key", `{"-480":"a.webp"}`},
		{"Empty path", `{"480":""}`},
		{"Non string path", `{"480":12}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseVariantSet(tt.raw); err == nil {
				t.Errorf("expected error for %q", tt.raw)
			}
		})
	}
}

func TestStaticResolver_URL(t *testing.T) {
	tests := []struct {
		prefix   string
		path     string
		expected string
	}{
		{"/static", "uploads/a.webp", "/static/uploads/a.webp"},
		{"/static/", "/uploads/a.webp", "/static/uploads/a.webp"},
		{"https://cdn.example.com/assets", "a.webp", "https://cdn.example.com/assets/a.webp"},
	}

	for _, tt := range tests {
		if got := (StaticResolver{Prefix: tt.prefix}).URL(tt.path); got != tt.expected {
			t.Errorf("URL(%q) with prefix %q: expected %q, got %q", tt.path, tt.prefix, tt.expected, got)
		}
	}
}
