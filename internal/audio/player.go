// Package audio plays the table's one-shot sound cues. Cues are short
// synthesized tones rather than shipped samples, so the binary carries no
// audio assets. A player that fails to open the output device degrades to a
// silent no-op instead of failing the application.
package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player plays one-shot cues. Safe for concurrent use; cues overlap freely
// since each play submits a fresh streamer.
type Player struct {
	mu      sync.Mutex
	muted   bool
	enabled bool
}

// NewPlayer initializes the speaker and returns a player. If the audio
// device cannot be opened the player is returned disabled and every cue is a
// no-op.
func NewPlayer() *Player {
	p := &Player{}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("[Audio] Speaker unavailable, cues disabled: %v", err)
		return p
	}
	p.enabled = true
	return p
}

// SetMuted silences or restores cue playback.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// Muted reports whether cues are currently silenced.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Win plays the round-won cue: a rising major arpeggio.
func (p *Player) Win() {
	p.play(note(523.25, 120), note(659.25, 120), note(783.99, 200))
}

// Lose plays the round-lost cue: a falling minor third.
func (p *Player) Lose() {
	p.play(note(392.00, 180), note(311.13, 260))
}

// Push plays the push cue: a single neutral tone.
func (p *Player) Push() {
	p.play(note(440.00, 220))
}

// Chip plays the short click for a chip landing on a zone.
func (p *Player) Chip() {
	p.play(note(880.00, 45))
}

// Reject plays the negative-feedback cue for an invalid input.
func (p *Player) Reject() {
	p.play(note(196.00, 90), note(185.00, 140))
}

func (p *Player) play(streamers ...beep.Streamer) {
	p.mu.Lock()
	blocked := !p.enabled || p.muted
	p.mu.Unlock()
	if blocked {
		return
	}
	speaker.Play(beep.Seq(streamers...))
}

// note returns a streamer producing a sine tone of the given frequency for
// the given duration in milliseconds, with a short linear fade at both ends
// to avoid clicks.
func note(freq float64, ms int) beep.Streamer {
	total := sampleRate.N(time.Duration(ms) * time.Millisecond)
	fade := sampleRate.N(5 * time.Millisecond)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			value := 0.25 * math.Sin(2*math.Pi*freq*float64(pos)/float64(sampleRate))
			switch {
			case pos < fade:
				value *= float64(pos) / float64(fade)
			case total-pos < fade:
				value *= float64(total-pos) / float64(fade)
			}
			samples[i][0] = value
			samples[i][1] = value
			pos++
			n++
		}
		return n, true
	})
}
