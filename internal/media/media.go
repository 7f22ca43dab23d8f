// Package media maintains the pool of photos and videos that feed the wall.
package media

import (
	"path/filepath"
	"strings"
)

type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

type Media struct {
	UUID string
	Path string
	Kind Kind
}

func (m Media) IsVideo() bool {
	return m.Kind == KindVideo
}

var photoExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".bmp":  {},
}

var videoExts = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".webm": {},
	".mov":  {},
	".avi":  {},
	".m4v":  {},
	".ts":   {},
}

// Classify maps a path or stream URL to a media kind. Stream URLs count as
// video. Unknown file extensions are not media.
func Classify(path string) (Kind, bool) {
	if IsStream(path) {
		return KindVideo, true
	}

	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := photoExts[ext]; ok {
		return KindPhoto, true
	}
	if _, ok := videoExts[ext]; ok {
		return KindVideo, true
	}
	return "", false
}

func IsStream(path string) bool {
	for _, scheme := range []string{"rtsp://", "rtmp://", "http://", "https://"} {
		if strings.HasPrefix(path, scheme) {
			return true
		}
	}
	return false
}
