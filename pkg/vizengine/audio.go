package vizengine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/hajimehoshi/ebiten/v2/audio"
	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
)

// AudioMetadataCallback receives the now-playing line for the overlay.
type AudioMetadataCallback func(song, artist string)

// AudioPlayer plays the selected school's recording, one track at a time.
// Selecting a new school fades the current track out before the next one
// starts; deselecting fades to silence. Schools without a track id are
// silently skipped, so the player degrades to a no-op when no recordings are
// on disk.
type AudioPlayer struct {
	OnMetadata AudioMetadataCallback
	AudioDir   string

	audioContext *audio.Context
	requests     chan string // track id, "" means stop
	stopChan     chan struct{}
	stoppedChan  chan struct{}
	isStopping   bool
}

func NewAudioPlayer(audioDir string, onMetadata AudioMetadataCallback) *AudioPlayer {
	return &AudioPlayer{
		OnMetadata:  onMetadata,
		AudioDir:    audioDir,
		requests:    make(chan string, 8),
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Play queues the school's track. Schools without a recording clear the
// now-playing line instead.
func (p *AudioPlayer) Play(s *songdata.School) {
	if s == nil || s.TrackID == "" {
		p.requests <- ""
		return
	}
	p.requests <- s.TrackID
}

// Stop fades out the current track without shutting the player down.
func (p *AudioPlayer) Stop() {
	p.requests <- ""
}

func (p *AudioPlayer) Shutdown() {
	log.Println("[AUDIO] Shutting down with fade-out...")
	p.isStopping = true
	close(p.stopChan)
	<-p.stoppedChan
	log.Println("[AUDIO] Stopped.")
}

func (p *AudioPlayer) Start() {
	go func() {
		defer close(p.stoppedChan)
		current := ""
		for {
			select {
			case <-p.stopChan:
				return
			case trackID := <-p.requests:
				if trackID == current {
					continue
				}
				current = trackID
				if trackID == "" {
					if p.OnMetadata != nil {
						p.OnMetadata("", "")
					}
					continue
				}
				path := filepath.Join(p.AudioDir, trackID+".mp3")
				next, err := p.playTrack(path)
				if err != nil {
					log.Printf("[AUDIO] Failed to play %s: %v", path, err)
					if p.OnMetadata != nil {
						p.OnMetadata("", "")
					}
					current = ""
					continue
				}
				// playTrack returns the request that interrupted it, if
				// any, so the switch is seamless.
				if next != "" {
					current = ""
					select {
					case p.requests <- next:
					default:
					}
				} else {
					current = ""
				}
			}
		}
	}()
}

// playTrack plays one file to completion, fading near the natural end and
// whenever a new request or shutdown interrupts it. It returns the track id
// of an interrupting request, or "".
func (p *AudioPlayer) playTrack(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var song, artist string
	if m, err := tag.ReadFrom(f); err == nil {
		song = m.Title()
		artist = m.Artist()
	}
	if song == "" {
		song = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if p.OnMetadata != nil {
		line := song
		if artist != "" {
			line = fmt.Sprintf("%s - %s", song, artist)
		}
		p.OnMetadata(line, artist)
	}

	if _, err := f.Seek(0, 0); err != nil {
		return "", err
	}
	d, err := mp3.NewDecoder(f)
	if err != nil {
		return "", err
	}

	if p.audioContext == nil {
		p.audioContext = audio.NewContext(44100)
	}
	player, err := p.audioContext.NewPlayer(d)
	if err != nil {
		return "", err
	}
	defer player.Close()
	player.Play()
	log.Printf("[AUDIO] Playing: %s", path)

	const fadeDuration = 2 * time.Second
	totalBytes := d.Length()
	duration := time.Duration(totalBytes) * time.Second / time.Duration(d.SampleRate()*4)
	startTime := time.Now()
	var stoppingAt time.Time
	interrupt := ""

	for player.IsPlaying() {
		if stoppingAt.IsZero() {
			if p.isStopping {
				stoppingAt = time.Now()
			}
			select {
			case req := <-p.requests:
				interrupt = req
				stoppingAt = time.Now()
			default:
			}
		}

		elapsed := time.Since(startTime)
		remaining := duration - elapsed
		vol := 1.0
		if remaining <= fadeDuration {
			vol = float64(remaining) / float64(fadeDuration)
		}
		if !stoppingAt.IsZero() {
			stopVol := 1.0 - float64(time.Since(stoppingAt))/float64(fadeDuration)
			if stopVol < vol {
				vol = stopVol
			}
			if stopVol <= 0 {
				break
			}
		}
		if vol < 0 {
			vol = 0
		}
		player.SetVolume(vol)

		if remaining <= 0 {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	return interrupt, nil
}
