package card

import (
	"errors"
	"testing"
	"time"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr bool
	}{
		{"pinyin only", Draft{Character: "你", Pinyin: "nǐ", Meaning: "you"}, false},
		{"zhuyin only", Draft{Character: "你", Zhuyin: "ㄋㄧˇ", Meaning: "you"}, false},
		{"both", Draft{Character: "你", Pinyin: "nǐ", Zhuyin: "ㄋㄧˇ", Meaning: "you"}, false},
		{"no pronunciation", Draft{Character: "你", Meaning: "you"}, true},
		{"no character", Draft{Pinyin: "nǐ", Meaning: "you"}, true},
		{"no meaning", Draft{Character: "你", Pinyin: "nǐ"}, true},
		{"comma in meaning", Draft{Character: "是", Pinyin: "shì", Meaning: "to be, is"}, true},
		{"comma in pinyin", Draft{Character: "是", Pinyin: "shì,", Meaning: "to be"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want wrapping ErrInvalid", err)
			}
		})
	}
}

func TestDraftValidateMessage(t *testing.T) {
	err := Draft{Character: "是", Meaning: "to be, is"}.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	want := "invalid card: missing pinyin, zhuyin; comma in meaning"
	if err.Error() != want {
		t.Errorf("Validate() error = %q, want %q", err.Error(), want)
	}
}

func TestDraftNormalize(t *testing.T) {
	d := Draft{Character: " 好 ", Pinyin: "\thǎo", Zhuyin: "", Meaning: "good \r"}.Normalize()
	want := Draft{Character: "好", Pinyin: "hǎo", Meaning: "good"}
	if d != want {
		t.Errorf("Normalize() = %+v, want %+v", d, want)
	}
}

func TestNewIsImmediatelyDue(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(Draft{Character: "我", Pinyin: "wǒ", Meaning: "I"}, now)

	if c.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if c.Level != 0 || c.Streak != 0 || c.CorrectCount != 0 || c.IncorrectCount != 0 {
		t.Errorf("New() has non-zero review state: %+v", c)
	}
	if c.LastReview != nil {
		t.Errorf("LastReview = %v, want nil", c.LastReview)
	}
	if !c.IsDue(now) {
		t.Error("new card should be due at creation time")
	}
	if c.IsDue(now.Add(-time.Second)) {
		t.Error("new card should not be due before creation time")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[ID]bool)
	for range 100 {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestPronunciation(t *testing.T) {
	tests := []struct {
		pinyin, zhuyin, want string
	}{
		{"nǐ", "ㄋㄧˇ", "nǐ / ㄋㄧˇ"},
		{"nǐ", "", "nǐ"},
		{"", "ㄋㄧˇ", "ㄋㄧˇ"},
		{"", "", ""},
	}
	for _, tt := range tests {
		c := Card{Pinyin: tt.pinyin, Zhuyin: tt.zhuyin}
		if got := c.Pronunciation(); got != tt.want {
			t.Errorf("Pronunciation(%q, %q) = %q, want %q", tt.pinyin, tt.zhuyin, got, tt.want)
		}
	}
}

func TestProgressRoundTrip(t *testing.T) {
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Card{Level: 3, Streak: 2, CorrectCount: 5, IncorrectCount: 1, LastReview: &last, NextReview: last.AddDate(0, 0, 7)}

	var other Card
	other.SetProgress(c.Progress())
	if other.Progress() != c.Progress() {
		t.Errorf("SetProgress(Progress()) = %+v, want %+v", other.Progress(), c.Progress())
	}
}

func TestProgressValidate(t *testing.T) {
	if err := (Progress{Level: 7}).Validate(); err != nil {
		t.Errorf("level 7: unexpected error %v", err)
	}
	if err := (Progress{Level: 8}).Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("level 8: error = %v, want ErrInvalid", err)
	}
	if err := (Progress{Streak: -1}).Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("negative streak: error = %v, want ErrInvalid", err)
	}
}
