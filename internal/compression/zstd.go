// Package compression wraps zstd for values persisted by the storage backends.
//
// Small values are stored as-is. Compressed values are recognised on read by the
// zstd frame magic, so a backend can mix both and toggle compression between
// runs without rewriting existing keys.
package compression

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// MinSize is the smallest payload worth compressing.
const MinSize = 128

var frameMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Level selects the zstd encoder speed.
type Level int

const (
	LevelFastest Level = iota + 1
	LevelDefault
	LevelBetter
	LevelBest
)

// ParseLevel maps a config value ("fastest", "default", "better", "best") to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fastest", "1":
		return LevelFastest, nil
	case "", "default", "2":
		return LevelDefault, nil
	case "better", "3":
		return LevelBetter, nil
	case "best", "4":
		return LevelBest, nil
	}
	return 0, fmt.Errorf("unknown compression level %q", s)
}

func (l Level) encoderLevel() zstd.EncoderLevel {
	switch l {
	case LevelFastest:
		return zstd.SpeedFastest
	case LevelBetter:
		return zstd.SpeedBetterCompression
	case LevelBest:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	enabled bool
}

// New returns a Compressor. A disabled compressor still decodes zstd frames so
// values written while compression was on stay readable.
func New(level Level, enabled bool) (*Compressor, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	c := &Compressor{decoder: decoder, enabled: enabled}
	if !enabled {
		return c, nil
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(level.encoderLevel()),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		decoder.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	c.encoder = encoder
	return c, nil
}

func (c *Compressor) Compress(data []byte) []byte {
	if !c.enabled || len(data) < MinSize {
		return data
	}

	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if len(compressed) >= len(data) {
		return data
	}
	return compressed
}

func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decode zstd frame: %w", err)
	}
	return out, nil
}

// IsCompressed reports whether data starts with a zstd frame header.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, frameMagic)
}

func (c *Compressor) Close() error {
	if c.encoder != nil {
		if err := c.encoder.Close(); err != nil {
			return err
		}
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return nil
}
