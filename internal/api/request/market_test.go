package request

import "testing"

func TestParseTrendingLimit(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", DefaultTrendingLimit, false},
		{"1", 1, false},
		{"50", 50, false},
		{"0", 0, true},
		{"51", 0, true},
		{"ten", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTrendingLimit(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseTrendingLimit(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseTrendingLimit(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	t.Run("empty selects every month", func(t *testing.T) {
		got, err := ParseMonth("")
		if err != nil || got != "" {
			t.Errorf("Expected empty month, got %q, %v", got, err)
		}
	})

	t.Run("valid month", func(t *testing.T) {
		got, err := ParseMonth("2024-02")
		if err != nil || got != "2024-02" {
			t.Errorf("Expected 2024-02, got %q, %v", got, err)
		}
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		for _, in := range []string{"2024-2", "02/2024", "2024-13"} {
			if _, err := ParseMonth(in); err == nil {
				t.Errorf("Expected error for %q", in)
			}
		}
	})
}
