// Package speech produces optional spoken confirmations. Nothing here is on
// the path of a ledger command: Announce returns immediately and failures
// only reach the log.
package speech

import (
	"context"
	"sync"
	"time"

	"github.com/sheikh-saqib/apb-demo-bank/internal/logger"
)

// Clip is the most recent synthesized announcement.
type Clip struct {
	Text      string
	WAV       []byte
	CreatedAt time.Time
}

type Announcer struct {
	synth   Synthesizer
	log     *logger.Logger
	timeout time.Duration

	wg     sync.WaitGroup
	mu     sync.RWMutex
	latest *Clip
}

// NewAnnouncer returns an announcer; a nil synth disables it.
func NewAnnouncer(synth Synthesizer, timeout time.Duration, log *logger.Logger) *Announcer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Announcer{synth: synth, log: log, timeout: timeout}
}

func (a *Announcer) Enabled() bool {
	return a != nil && a.synth != nil
}

// Announce synthesizes text in the background.
func (a *Announcer) Announce(text string) {
	if !a.Enabled() {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		pcm, rate, err := a.synth.Synthesize(ctx, text)
		if err != nil {
			a.log.Warn("speech synthesis failed", "text", text, "error", err)
			return
		}
		clip := &Clip{Text: text, WAV: EncodeWAV(pcm, rate), CreatedAt: time.Now()}

		a.mu.Lock()
		a.latest = clip
		a.mu.Unlock()
		a.log.Debug("speech clip ready", "text", text, "bytes", len(clip.WAV))
	}()
}

func (a *Announcer) Latest() (Clip, bool) {
	if a == nil {
		return Clip{}, false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.latest == nil {
		return Clip{}, false
	}
	return *a.latest, true
}

// Wait blocks until in-flight announcements finish.
func (a *Announcer) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}
