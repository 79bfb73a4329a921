package pkg

import (
	"errors"
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 9, 14, 30, 0, 123456000, time.UTC)
	c := Cursor{CreatedAt: ts, ID: 42}

	got, err := ParseCursor(c.Encode())
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if got.ID != 42 {
		t.Errorf("id = %d, want 42", got.ID)
	}
	if got.CreatedAt.UnixMicro() != ts.UnixMicro() {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, ts)
	}
}

func TestParseCursorEmptyIsZero(t *testing.T) {
	c, err := ParseCursor("")
	if err != nil {
		t.Fatalf("ParseCursor(\"\"): %v", err)
	}
	if !c.IsZero() {
		t.Errorf("empty cursor not zero: %+v", c)
	}
}

func TestParseCursorRejectsMalformed(t *testing.T) {
	cases := []string{
		"nounderscore",
		"abc_1",
		"123_abc",
		"123_0",
		"_",
		"1_2_3x",
	}
	for _, in := range cases {
		if _, err := ParseCursor(in); !errors.Is(err, ErrBadCursor) {
			t.Errorf("ParseCursor(%q) err = %v, want ErrBadCursor", in, err)
		}
	}
}
