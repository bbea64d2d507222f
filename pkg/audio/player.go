package audio

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	SampleRate    = 44100
	channelCount  = 2
	bytesPerFrame = channelCount * 2
)

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
)

// Tone is one note of a chime
type Tone struct {
	Frequency float64
	Duration  time.Duration
}

// ReminderChime is the two-note chime played with reminders
var ReminderChime = []Tone{
	{Frequency: 880, Duration: 180 * time.Millisecond},
	{Frequency: 1318.5, Duration: 320 * time.Millisecond},
}

// Player manages chime playback with cancellation support
type Player struct {
	stopChan chan struct{}
	player   *oto.Player
	stopped  bool
	mu       sync.Mutex
}

// initAudioContext initializes the global audio context once. It reports
// whether a context is available.
func initAudioContext() bool {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("[AUDIO] Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		log.Println("[AUDIO] Audio context initialized")
	})
	return globalAudioCtx != nil
}

// Synthesize renders tones as 16-bit little endian stereo PCM. Each tone fades
// out linearly to avoid clicks between notes.
func Synthesize(tones []Tone) []byte {
	var buf bytes.Buffer
	for _, tone := range tones {
		frames := int(tone.Duration.Seconds() * SampleRate)
		buf.Grow(frames * bytesPerFrame)
		for i := 0; i < frames; i++ {
			envelope := 1 - float64(i)/float64(frames)
			value := math.Sin(2*math.Pi*tone.Frequency*float64(i)/SampleRate) * envelope * 0.4
			sample := int16(value * math.MaxInt16)
			for c := 0; c < channelCount; c++ {
				binary.Write(&buf, binary.LittleEndian, sample)
			}
		}
	}
	return buf.Bytes()
}

// PlayChime plays tones once in the background and returns a Player for
// control, or nil when no audio device is available.
func PlayChime(tones []Tone) *Player {
	if !initAudioContext() {
		log.Printf("[AUDIO] Audio context not ready")
		return nil
	}

	p := &Player{
		stopChan: make(chan struct{}),
	}

	go p.play(Synthesize(tones))

	return p
}

func (p *Player) play(pcm []byte) {
	p.mu.Lock()
	p.player = globalAudioCtx.NewPlayer(bytes.NewReader(pcm))
	player := p.player
	p.mu.Unlock()

	// Play starts playing the sound and returns without waiting
	player.Play()

	for player.IsPlaying() {
		select {
		case <-p.stopChan:
			player.Pause()
			player.Close()
			return
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := player.Close(); err != nil {
		log.Printf("[AUDIO] Failed to close audio player: %v", err)
	}
}

// Stop stops the playback
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopChan)

		if p.player != nil {
			p.player.Pause()
		}
	}
}
