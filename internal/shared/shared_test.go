package shared

import "testing"

func TestNormalizeName(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "basic normalization",
			in:   "Chill Mix",
			want: "chill mix",
		},
		{
			name: "extra whitespace",
			in:   "  Chill   Mix  ",
			want: "chill mix",
		},
		{
			name: "mixed case",
			in:   "ChIlL MiX",
			want: "chill mix",
		},
		{
			name: "diacritics folded",
			in:   "Café Playlist",
			want: "cafe playlist",
		},
		{
			name: "empty string",
			in:   "   ",
			want: "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected unique IDs")
	}
}

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state == "" {
		t.Error("expected non-empty state token")
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"n": 1}

	t.Run("Compact", func(t *testing.T) {
		data, err := MarshalJSON(v, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != `{"n":1}` {
			t.Errorf("unexpected output: %s", data)
		}
	})

	t.Run("Pretty", func(t *testing.T) {
		data, err := MarshalJSON(v, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) == `{"n":1}` {
			t.Error("expected indented output")
		}
	})
}
