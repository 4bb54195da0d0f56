package led

import (
	"sync"
)

// Frame is one captured render.
type Frame struct {
	Words      []uint32
	Brightness uint8
}

// Recorder keeps every frame it is asked to render. Useful for headless runs and tests.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
	closed bool

	// Err, when set, is returned from Render after the frame is recorded.
	Err error
	// Keep bounds how many frames are retained. 0 keeps every frame.
	Keep int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Render(words []uint32, brightness uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	f := Frame{Words: make([]uint32, len(words)), Brightness: brightness}
	copy(f.Words, words)
	r.frames = append(r.frames, f)
	if r.Keep > 0 && len(r.frames) > r.Keep {
		r.frames = append(r.frames[:0], r.frames[len(r.frames)-r.Keep:]...)
	}
	return r.Err
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *Recorder) String() string {
	return "recorder"
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Last returns the most recent frame, if any.
func (r *Recorder) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
