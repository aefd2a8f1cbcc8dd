// Package mediafile classifies filesystem paths into semantic media-file
// kinds.
package mediafile

// Kind is the semantic role of a file within a media unit.
type Kind string

const (
	KindVideo       Kind = "video"
	KindVideoExtra  Kind = "video_extra"
	KindTrailer     Kind = "trailer"
	KindSubtitle    Kind = "subtitle"
	KindPoster      Kind = "poster"
	KindFanart      Kind = "fanart"
	KindExtraFanart Kind = "extrafanart"
	KindThumb       Kind = "thumb"
	KindAudio       Kind = "audio"
	KindNFO         Kind = "nfo"
	KindGraphic     Kind = "graphic"
	KindUnknown     Kind = "unknown"
)

// videoExtensions covers common containers. ISO images count as video;
// the disc flag is tracked separately.
var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".mpg": true, ".mpeg": true, ".m4v": true, ".ts": true, ".m2ts": true,
	".vob": true, ".iso": true, ".webm": true, ".flv": true, ".divx": true,
}

var subtitleExtensions = map[string]bool{
	".srt": true, ".sub": true, ".idx": true, ".ass": true, ".ssa": true,
	".vtt": true, ".smi": true,
}

var audioExtensions = map[string]bool{
	".mp3": true, ".flac": true, ".ogg": true, ".wav": true, ".ac3": true,
	".dts": true, ".m4a": true, ".aac": true,
}

var graphicExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".tbn": true, ".gif": true,
	".bmp": true, ".webp": true,
}

// IsVideo reports whether the path has a video container extension.
func IsVideo(path string) bool { return videoExtensions[lowerExt(path)] }

// IsGraphic reports whether the path has an image extension.
func IsGraphic(path string) bool { return graphicExtensions[lowerExt(path)] }
