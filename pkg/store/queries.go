package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// mapConfigColumns are selected in the order of the hlstats config table.
// font is not selected: nothing reads it.
const mapConfigColumns = "g.code, hc.game, hc.map, hc.xoffset, hc.yoffset, hc.flipx, hc.flipy, hc.rotate, " +
	"hc.days, hc.brush, hc.scale, hc.thumbw, hc.thumbh, hc.cropx1, hc.cropx2, hc.cropy1, hc.cropy2"

func (s *Store) mapConfigQuery(tx *gorm.DB, game string) *gorm.DB {
	return tx.Table(s.table("Games")+" AS g").
		Select(mapConfigColumns).
		Joins("INNER JOIN "+s.table("Heatmap_Config")+" AS hc ON hc.game = g.realgame").
		Where("hc.game = ?", game).
		Order("code ASC, game ASC, map ASC")
}

// killEventSQL is the frag/teamkill union. %[1]s is the table prefix.
// The teamkill branch carries neither the game, position nor time filter.
const killEventSQL = `SELECT 'frag' AS killtype, hef.id, hef.map, hs.game, hef.eventTime, ` +
	`hef.pos_x, hef.pos_y, hef.pos_victim_x, hef.pos_victim_y ` +
	`FROM %[1]s_Events_Frags AS hef, %[1]s_Servers AS hs ` +
	`WHERE (hef.map = ? OR hef.map = ?) AND hs.serverId = hef.serverId AND hs.game = ? ` +
	`AND hef.pos_x IS NOT NULL AND hef.pos_y IS NOT NULL AND hef.eventTime >= FROM_UNIXTIME(?) ` +
	`UNION ALL ` +
	`SELECT 'teamkill' AS killtype, hef.id, hef.map, hs.game, hef.eventTime, ` +
	`hef.pos_x, hef.pos_y, hef.pos_victim_x, hef.pos_victim_y ` +
	`FROM %[1]s_Events_Teamkills AS hef, %[1]s_Servers AS hs ` +
	`WHERE (hef.map = ? OR hef.map = ?) AND hs.serverId = hef.serverId`

func (s *Store) killEventQuery(tx *gorm.DB, mapName, game string, since time.Time) *gorm.DB {
	custom := "custom/" + mapName
	return tx.Raw(fmt.Sprintf(killEventSQL, s.prefix),
		mapName, custom, game, since.Unix(),
		mapName, custom)
}
