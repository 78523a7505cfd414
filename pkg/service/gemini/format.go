package gemini

import (
	"bytes"
	"encoding/binary"
	"regexp"
)

var markdownFence = regexp.MustCompile("(?s)```(?:json)?\\s*|\\s*```")

// CleanJSONString strips markdown code fences that models wrap around
// JSON output
func CleanJSONString(s string) string {
	return markdownFence.ReplaceAllString(s, "")
}

// DetectAudioMIME guesses the MIME type of audio bytes from file magic.
// Unknown content defaults to audio/wav, which Gemini handles robustly.
func DetectAudioMIME(data []byte) string {
	switch {
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Contains(data[:12], []byte("WAVE")):
		return "audio/wav"
	case bytes.HasPrefix(data, []byte("ID3")) || bytes.HasPrefix(data, []byte{0xff, 0xfb}) || bytes.HasPrefix(data, []byte{0xff, 0xf3}):
		return "audio/mp3"
	case len(data) >= 12 && bytes.Equal(data[4:11], []byte("ftypM4A")):
		return "audio/m4a"
	case len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")):
		return "audio/mp4"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "audio/ogg"
	case bytes.HasPrefix(data, []byte("fLaC")):
		return "audio/flac"
	default:
		return "audio/wav"
	}
}

// WAVDuration returns the duration in seconds of a RIFF/WAVE payload, or
// 0 when the header cannot be read. Only PCM WAV is probed; other
// containers would need a full demuxer.
func WAVDuration(data []byte) float64 {
	if len(data) < 44 || !bytes.HasPrefix(data, []byte("RIFF")) {
		return 0
	}

	// walk RIFF chunks for fmt and data
	var byteRate uint32
	var dataSize uint32
	offset := 12
	for offset+8 <= len(data) {
		chunkID := data[offset : offset+4]
		chunkSize := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8

		switch {
		case bytes.Equal(chunkID, []byte("fmt ")) && body+16 <= len(data):
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
		case bytes.Equal(chunkID, []byte("data")):
			dataSize = chunkSize
		}

		offset = body + int(chunkSize)
		if chunkSize%2 == 1 {
			offset++ // RIFF chunks are word aligned
		}
	}

	if byteRate == 0 || dataSize == 0 {
		return 0
	}
	return float64(dataSize) / float64(byteRate)
}
