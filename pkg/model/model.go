// Package model defines the records the heatmap generator reads from the
// hlstats database.
//
// Both types are plain scan targets: the store fills them, the pipeline reads
// them, nothing mutates them afterwards.
package model

import (
	"fmt"
	"time"
)

// Kill types as labelled by the event query.
const (
	KillTypeFrag     KillType = "frag"
	KillTypeTeamkill KillType = "teamkill"
)

// ModeKill is the only heatmap mode the generator produces.
const ModeKill = "kill"

// KillType identifies which event table a KillEvent row came from.
type KillType string

// MapConfig is one row of the heatmap configuration joined with the games
// table. It describes how world coordinates map onto the map's base image.
type MapConfig struct {
	Code    string  `gorm:"column:code"`
	Game    string  `gorm:"column:game"`
	Map     string  `gorm:"column:map"`
	OffsetX float64 `gorm:"column:xoffset"`
	OffsetY float64 `gorm:"column:yoffset"`
	FlipX   bool    `gorm:"column:flipx"`
	FlipY   bool    `gorm:"column:flipy"`
	Rotate  bool    `gorm:"column:rotate"`
	Days    int     `gorm:"column:days"`  // stored lookback; the generator uses a fixed window
	Brush   string  `gorm:"column:brush"` // stored brush size; unused by the renderer
	Scale   float64 `gorm:"column:scale"`
	ThumbW  float64 `gorm:"column:thumbw"`
	ThumbH  float64 `gorm:"column:thumbh"`
	CropX1  int     `gorm:"column:cropx1"`
	CropX2  int     `gorm:"column:cropx2"`
	CropY1  int     `gorm:"column:cropy1"`
	CropY2  int     `gorm:"column:cropy2"`
}

// HasCrop reports whether the composited image should be cropped.
func (c MapConfig) HasCrop() bool {
	return c.CropX2 > 0 && c.CropY2 > 0
}

// HasThumbnail reports whether a thumbnail should be written.
func (c MapConfig) HasThumbnail() bool {
	return c.ThumbW > 0 && c.ThumbH > 0
}

// String identifies the config in log output.
func (c MapConfig) String() string {
	return fmt.Sprintf("%s/%s/%s", c.Code, c.Game, c.Map)
}

// KillEvent is one frag or teamkill row. Positions are nullable in the
// schema; only one of the two pairs is consulted per event.
type KillEvent struct {
	KillType   KillType  `gorm:"column:killtype"`
	ID         int64     `gorm:"column:id"`
	Map        string    `gorm:"column:map"`
	Game       string    `gorm:"column:game"`
	EventTime  time.Time `gorm:"column:eventTime"`
	PosX       *int      `gorm:"column:pos_x"`
	PosY       *int      `gorm:"column:pos_y"`
	PosVictimX *int      `gorm:"column:pos_victim_x"`
	PosVictimY *int      `gorm:"column:pos_victim_y"`
}

// Position returns the world position this event contributes to the heatmap.
//
// Frag rows contribute where the victim died, teamkill rows where the killer
// stood. ok is false when the chosen pair is NULL or the kill type is
// unknown; such events add no point.
func (e KillEvent) Position() (x, y float64, ok bool) {
	var px, py *int
	switch e.KillType {
	case KillTypeFrag:
		px, py = e.PosVictimX, e.PosVictimY
	case KillTypeTeamkill:
		px, py = e.PosX, e.PosY
	default:
		return 0, 0, false
	}
	if px == nil || py == nil {
		return 0, 0, false
	}
	return float64(*px), float64(*py), true
}
