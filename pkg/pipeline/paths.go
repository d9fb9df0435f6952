package pipeline

import (
	"fmt"
	"path/filepath"
)

// BaseImagePath returns <srcDir>/<game>/<map>.png.
func BaseImagePath(srcDir, game, mapName string) string {
	return filepath.Join(srcDir, game, mapName+".png")
}

// OutputDir returns the heatmap directory of a site under the web root.
// It is never created by the generator.
func OutputDir(webPath, code string) string {
	return filepath.Join(webPath, "hlstatsimg", "games", code, "heatmaps")
}

// OutputPath returns the full-size output <dir>/<map>-<mode>.png.
func OutputPath(webPath, code, mapName, mode string) string {
	return filepath.Join(OutputDir(webPath, code), fmt.Sprintf("%s-%s.png", mapName, mode))
}

// ThumbPath returns the thumbnail output <dir>/<map>-<mode>-thumb.png.
func ThumbPath(webPath, code, mapName, mode string) string {
	return filepath.Join(OutputDir(webPath, code), fmt.Sprintf("%s-%s-thumb.png", mapName, mode))
}
