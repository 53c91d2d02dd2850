package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/video-catalog/internal/model"
)

func cat(id string, keywords ...string) model.Category {
	return model.Category{ID: id, Keywords: keywords}
}

func TestMatch_ByTitle(t *testing.T) {
	candidates := []model.Category{cat("1", "Apex", "FPS")}

	got := Match("Today we play Apex Legends", "description", candidates)
	assert.Equal(t, "1", got)
}

func TestMatch_ByDescription(t *testing.T) {
	candidates := []model.Category{cat("2", "Minecraft")}

	got := Match("Lets Play", "Playing Minecraft with friends", candidates)
	assert.Equal(t, "2", got)
}

func TestMatch_NoMatch(t *testing.T) {
	candidates := []model.Category{cat("3", "Cooking")}

	got := Match("Gaming Video", "Just playing games", candidates)
	assert.Equal(t, "", got)
}

func TestMatch_CaseInsensitive(t *testing.T) {
	candidates := []model.Category{cat("4", "ZELDA")}

	got := Match("Playing zelda is fun", "", candidates)
	assert.Equal(t, "4", got)
}

func TestMatch_FirstCandidateWins(t *testing.T) {
	// Both categories match "stream" — candidate order decides, not
	// keyword position or count.
	candidates := []model.Category{
		cat("talk", "stream", "chat"),
		cat("game", "stream", "play"),
	}

	got := Match("Morning stream", "", candidates)
	assert.Equal(t, "talk", got)
}

func TestMatch_KeywordOrderWithinCandidate(t *testing.T) {
	// The first matching keyword short-circuits the scan; later
	// candidates are never examined.
	candidates := []model.Category{
		cat("a", "nomatch", "karaoke"),
		cat("b", "karaoke"),
	}

	got := Match("KARAOKE night", "", candidates)
	assert.Equal(t, "a", got)
}

func TestMatch_EmptyKeywordListSkipped(t *testing.T) {
	candidates := []model.Category{
		cat("empty"),
		cat("hit", "video"),
	}

	got := Match("my video", "", candidates)
	assert.Equal(t, "hit", got)
}

func TestMatch_EmptyKeywordStringNeverMatches(t *testing.T) {
	// A "" keyword is a substring of every text; it must be ignored.
	candidates := []model.Category{cat("bad", "")}

	got := Match("anything at all", "", candidates)
	assert.Equal(t, "", got)
}

func TestMatch_NoCandidates(t *testing.T) {
	got := Match("title", "description", nil)
	assert.Equal(t, "", got)
}

func TestMatch_MultibyteKeywords(t *testing.T) {
	// Substring matching works without word boundaries, which is what
	// makes it usable for Japanese titles.
	candidates := []model.Category{cat("utawaku", "歌枠", "カラオケ")}

	got := Match("【歌枠】夜のうたうよ", "", candidates)
	assert.Equal(t, "utawaku", got)
}

func TestMatch_SubstringFalsePositive(t *testing.T) {
	// Documented limitation: short keywords match inside unrelated words.
	// "art" occurs inside "started" — this IS the intended behavior.
	candidates := []model.Category{cat("art", "art")}

	got := Match("Getting started with Go", "", candidates)
	assert.Equal(t, "art", got)
}
