package telemetry

import (
	"testing"

	"github.com/terraspiel/terraspiel/config"
)

func init() {
	config.MustInit("")
}

func TestBookmarkDetector_BigExplosion(t *testing.T) {
	bd := NewBookmarkDetector(10)

	stats := WindowStats{
		WindowEndTick:       600,
		ThunderExplosions:   2,
		CellsCleared:        80,
		ExplosionRadiusP90:  2.4,
	}
	bookmarks := bd.Check(stats)

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkBigExplosion {
			found = true
		}
	}
	if !found {
		t.Error("expected big_explosion bookmark")
	}
}

func TestBookmarkDetector_BigExplosion_BelowThreshold(t *testing.T) {
	bd := NewBookmarkDetector(10)

	stats := WindowStats{
		WindowEndTick:     600,
		ThunderExplosions: 1,
		CellsCleared:      5,
	}
	bookmarks := bd.Check(stats)

	for _, bm := range bookmarks {
		if bm.Type == BookmarkBigExplosion {
			t.Error("did not expect big_explosion bookmark below threshold")
		}
	}
}

func TestBookmarkDetector_LongFireChain(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var bookmarks []Bookmark
	for i := 0; i < 5; i++ {
		bookmarks = bd.Check(WindowStats{
			WindowEndTick: int64(i * 100),
			FireIgnitions: 6,
		})
	}

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkLongFireChain {
			found = true
		}
	}
	if !found {
		t.Error("expected long_fire_chain bookmark once accumulated ignitions cross the threshold")
	}
}

func TestBookmarkDetector_LongFireChain_ResetsWhenFireDiesOut(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEndTick: 100, FireIgnitions: 10})
	bookmarks := bd.Check(WindowStats{WindowEndTick: 200, FireIgnitions: 0})

	for _, bm := range bookmarks {
		if bm.Type == BookmarkLongFireChain {
			t.Error("fire chain should reset once a window has no ignitions")
		}
	}
}

func TestBookmarkDetector_DeepEther(t *testing.T) {
	bd := NewBookmarkDetector(10)

	stats := WindowStats{
		WindowEndTick:   600,
		EtherStorageP90: 14,
	}
	bookmarks := bd.Check(stats)

	found := false
	for _, bm := range bookmarks {
		if bm.Type == BookmarkDeepEther {
			found = true
		}
	}
	if !found {
		t.Error("expected deep_ether bookmark")
	}
}
