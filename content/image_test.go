package content

import "testing"

func TestImageURL(t *testing.T) {
	cfg := Config{ProjectID: "proj", Dataset: "production"}
	tests := []struct {
		ref  string
		want string
	}{
		{"image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg", "https://cdn.sanity.io/images/proj/production/Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000.jpg"},
		{"image-abc-10x20-png", "https://cdn.sanity.io/images/proj/production/abc-10x20.png"},
		{"garbage", "https://cdn.sanity.io/images/proj/production/garbage"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cfg.ImageURL(tt.ref); got != tt.want {
			t.Errorf("ImageURL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestImageURLWidth(t *testing.T) {
	cfg := Config{ProjectID: "proj", Dataset: "staging"}
	got := cfg.ImageURLWidth("image-abc-10x20-png", 800)
	want := "https://cdn.sanity.io/images/proj/staging/abc-10x20.png?w=800&auto=format"
	if got != want {
		t.Errorf("ImageURLWidth = %q, want %q", got, want)
	}
}

func TestClientImageURLWidth(t *testing.T) {
	c, err := New(Config{ProjectID: "proj"})
	if err != nil {
		t.Fatal(err)
	}
	got := c.ImageURLWidth("image-ada-80x80-jpg", 80)
	want := "https://cdn.sanity.io/images/proj/production/ada-80x80.jpg?w=80&auto=format"
	if got != want {
		t.Errorf("ImageURLWidth = %q, want %q", got, want)
	}
	if got := c.ImageURLWidth("", 80); got != "" {
		t.Errorf("ImageURLWidth(\"\") = %q, want empty", got)
	}
}
