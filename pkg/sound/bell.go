// Package sound plays the attention bell.
package sound

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	bellFrequency = 880.0
	bellDuration  = 150 * time.Millisecond
	// bellVolume is the gain in octaves below full scale
	bellVolume = -2.0
)

// Bell plays a short sine tone.
type Bell struct {
	sr beep.SampleRate
}

func NewBell() (*Bell, error) {
	// Initialize speaker with default settings
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to initialize audio: %w", err)
	}
	return &Bell{sr: sampleRate}, nil
}

func (b *Bell) tone() (beep.Streamer, error) {
	sine, err := generators.SineTone(b.sr, bellFrequency)
	if err != nil {
		return nil, fmt.Errorf("failed to create tone: %w", err)
	}
	return &effects.Volume{
		Streamer: beep.Take(b.sr.N(bellDuration), sine),
		Base:     2,
		Volume:   bellVolume,
	}, nil
}

// Ring plays the bell without waiting for it to finish.
func (b *Bell) Ring() error {
	s, err := b.tone()
	if err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

func (b *Bell) Close() {
	speaker.Close()
}
