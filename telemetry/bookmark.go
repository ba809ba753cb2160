package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/terraspiel/terraspiel/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBigExplosion  BookmarkType = "big_explosion"
	BookmarkLongFireChain BookmarkType = "long_fire_chain"
	BookmarkDeepEther     BookmarkType = "deep_ether"
)

// Bookmark represents an automatically triggered notable-event marker
// (SPEC_FULL.md §10 "Notable events").
type Bookmark struct {
	Type        BookmarkType
	Tick        int64
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation from a
// rolling history of window stats (grounded on the teacher's circular-
// buffer detector pattern).
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	fireChainRun int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkBigExplosion(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkLongFireChain(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDeepEther(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) checkBigExplosion(stats WindowStats) *Bookmark {
	cfg := config.Cfg().Bookmarks.BigExplosion
	if stats.ThunderExplosions == 0 || stats.CellsCleared < cfg.MinCellsCleared {
		return nil
	}
	return &Bookmark{
		Type: BookmarkBigExplosion,
		Tick: stats.WindowEndTick,
		Description: fmt.Sprintf("thunder cleared %d cells across %d explosion(s) (p90 radius %.2f)",
			stats.CellsCleared, stats.ThunderExplosions, stats.ExplosionRadiusP90),
	}
}

func (bd *BookmarkDetector) checkLongFireChain(stats WindowStats) *Bookmark {
	cfg := config.Cfg().Bookmarks.LongFireChain
	if stats.FireIgnitions == 0 {
		bd.fireChainRun = 0
		return nil
	}
	bd.fireChainRun += stats.FireIgnitions
	if bd.fireChainRun < cfg.MinIgnitions {
		return nil
	}
	run := bd.fireChainRun
	bd.fireChainRun = 0
	return &Bookmark{
		Type:        BookmarkLongFireChain,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("fire spread through %d ignitions without dying out", run),
	}
}

func (bd *BookmarkDetector) checkDeepEther(stats WindowStats) *Bookmark {
	cfg := config.Cfg().Bookmarks.DeepEther
	if stats.EtherStorageP90 < float64(cfg.MinStorage) {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDeepEther,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("a crystal reached ether storage near %.0f (p90 across live crystals)", stats.EtherStorageP90),
	}
}
