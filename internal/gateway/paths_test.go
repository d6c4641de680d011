package gateway

import "testing"

func TestGameFileNameZeroPadding(t *testing.T) {
	cases := map[int]string{
		1:    "game_001.json",
		42:   "game_042.json",
		137:  "game_137.json",
		1000: "game_1000.json",
	}
	for number, want := range cases {
		if got := GameFileName(number); got != want {
			t.Fatalf("GameFileName(%d) = %q, want %q", number, got, want)
		}
	}
}

func TestExtractGameNumber(t *testing.T) {
	if n, ok := ExtractGameNumber("game_007.json"); !ok || n != 7 {
		t.Fatalf("unexpected result: %d %v", n, ok)
	}
	if n, ok := ExtractGameNumber("game_1000.json"); !ok || n != 1000 {
		t.Fatalf("unexpected result: %d %v", n, ok)
	}
	for _, bad := range []string{"game_.json", "game_7.txt", "match_007.json", "game_007.json.bak", ".gitkeep"} {
		if _, ok := ExtractGameNumber(bad); ok {
			t.Fatalf("expected no match for %q", bad)
		}
	}
}

func TestExtractImageNumber(t *testing.T) {
	if n, ok := ExtractImageNumber("game_012.png"); !ok || n != 12 {
		t.Fatalf("unexpected result: %d %v", n, ok)
	}
	if n, ok := ExtractImageNumber("game_003.jpeg"); !ok || n != 3 {
		t.Fatalf("unexpected result: %d %v", n, ok)
	}
	if _, ok := ExtractImageNumber("game_012.gif"); ok {
		t.Fatalf("gif must not be recognized")
	}
}

func TestNextNumberSkipsGaps(t *testing.T) {
	records := []GameRecord{{Number: 1}, {Number: 2}, {Number: 5}}
	if got := NextNumber(records); got != 6 {
		t.Fatalf("NextNumber = %d, want 6", got)
	}
	if got := NextNumber(nil); got != 1 {
		t.Fatalf("NextNumber(empty) = %d, want 1", got)
	}
}

func TestImagePath(t *testing.T) {
	if got := ImagePath(7, "png"); got != "data/result/game_007.png" {
		t.Fatalf("ImagePath = %q", got)
	}
	if got := GamePath(7); got != "data/games/game_007.json" {
		t.Fatalf("GamePath = %q", got)
	}
}
