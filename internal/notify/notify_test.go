package notify

import (
	"fmt"
	"testing"
)

func TestFeedDrainClearsNotices(t *testing.T) {
	feed := NewFeed(8, nil)
	feed.Notify(LevelSuccess, "Contribution successful!")
	feed.Notify(LevelError, "Failed to contribute.")

	notices := feed.Drain()
	if len(notices) != 2 {
		t.Fatalf("drained %d notices, want 2", len(notices))
	}
	if notices[0].Level != LevelSuccess || notices[1].Level != LevelError {
		t.Fatalf("unexpected notice order: %+v", notices)
	}

	if again := feed.Drain(); len(again) != 0 {
		t.Fatalf("second drain returned %d notices, want 0", len(again))
	}
}

func TestFeedDropsOldestBeyondLimit(t *testing.T) {
	feed := NewFeed(3, nil)
	for i := 0; i < 5; i++ {
		feed.Notify(LevelSuccess, fmt.Sprintf("notice %d", i))
	}

	notices := feed.Drain()
	if len(notices) != 3 {
		t.Fatalf("kept %d notices, want 3", len(notices))
	}
	if notices[0].Message != "notice 2" {
		t.Fatalf("oldest kept notice = %q, want notice 2", notices[0].Message)
	}
}

func TestFuncsAdapter(t *testing.T) {
	var gotLevel Level
	var gotMsg string
	sink := Funcs(func(level Level, message string) {
		gotLevel, gotMsg = level, message
	})

	sink.Notify(LevelError, "boom")
	if gotLevel != LevelError || gotMsg != "boom" {
		t.Fatalf("adapter passed %v %q", gotLevel, gotMsg)
	}
}
