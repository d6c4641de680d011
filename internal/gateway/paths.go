package gateway

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
)

// Repository layout. All backends share these relative paths so a local
// mirror stays interchangeable with the remote repository.
const (
	TeamsPath    = "data/teams.json"
	VenuesPath   = "data/venues.json"
	SchedulePath = "data/schedule.json"
	GamesDir     = "data/games"
	ImagesDir    = "data/result"
	ConfigPath   = "config/leagues.json"
)

var (
	gameFilePattern  = regexp.MustCompile(`^game_(\d+)\.json$`)
	imageFilePattern = regexp.MustCompile(`^game_(\d+)\.(jpg|jpeg|png)$`)
)

// GameFileName renders the canonical zero-padded game file name,
// e.g. game_007.json.
func GameFileName(number int) string {
	return fmt.Sprintf("game_%03d.json", number)
}

// GamePath returns the repository path of a game document.
func GamePath(number int) string {
	return path.Join(GamesDir, GameFileName(number))
}

// ImageFileName renders the statistics image name for a game,
// e.g. game_007.png.
func ImageFileName(number int, ext string) string {
	return fmt.Sprintf("game_%03d.%s", number, ext)
}

// ImagePath returns the repository path of a statistics image.
func ImagePath(number int, ext string) string {
	return path.Join(ImagesDir, ImageFileName(number, ext))
}

// ExtractGameNumber parses the number out of a game file name. The second
// return is false when the name does not follow the convention.
func ExtractGameNumber(fileName string) (int, bool) {
	m := gameFilePattern.FindStringSubmatch(fileName)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractImageNumber parses the game number out of a statistics image
// name. Only the jpg, jpeg and png extensions are recognized.
func ExtractImageNumber(fileName string) (int, bool) {
	m := imageFilePattern.FindStringSubmatch(fileName)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextNumber returns one past the highest game number in records, or 1
// when no games exist yet. Gaps in the sequence are never reused.
func NextNumber(records []GameRecord) int {
	max := 0
	for _, r := range records {
		if r.Number > max {
			max = r.Number
		}
	}
	return max + 1
}
