package led

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestScaleMatchesLibws2811(t *testing.T) {
	words := []uint32{0xFFFFFFFF, 0x80402010, 0}

	full := Scale(words, 255)
	assert.Equal(t, words, full, "255 is passthrough")

	half := Scale(words, 127)
	assert.Equal(t, uint32(0x7F7F7F7F), half[0])
	assert.Equal(t, uint32(0x40201008), half[1])
	assert.Equal(t, uint32(0), half[2])

	off := Scale(words, 0)
	assert.Equal(t, uint32(0), off[0], "255*1>>8 rounds to 0")
}

func TestRGBWOrder(t *testing.T) {
	assert.Equal(t, []byte{0x22, 0x33, 0x44, 0x11}, rgbw([]uint32{0x11223344}))
}

func TestRecorderKeepsFrames(t *testing.T) {
	r := NewRecorder()
	words := []uint32{1, 2, 3}
	require.NoError(t, r.Render(words, 20))
	words[0] = 99

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 2, 3}, last.Words, "recorder must copy the frame")
	assert.Equal(t, uint8(20), last.Brightness)

	boom := errors.New("boom")
	r.Err = boom
	assert.ErrorIs(t, r.Render(words, 1), boom)
	assert.Len(t, r.Frames(), 2)

	require.NoError(t, r.Close())
	assert.True(t, r.Closed())
	assert.ErrorIs(t, r.Render(words, 1), ErrClosed)
}

func TestRecorderKeepBound(t *testing.T) {
	r := &Recorder{Keep: 2}
	for i := uint32(1); i <= 5; i++ {
		require.NoError(t, r.Render([]uint32{i}, 1))
	}
	frames := r.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, uint32(4), frames[0].Words[0])
	assert.Equal(t, uint32(5), frames[1].Words[0])
}

func TestSPIRendersThroughNRZ(t *testing.T) {
	buf := bytes.Buffer{}
	s, err := newSPI(spitest.NewRecordRaw(&buf), 4, 0)
	require.NoError(t, err)
	assert.Equal(t, "spi", s.String())

	halted := buf.Len()
	require.NoError(t, s.Render([]uint32{0xFF000000, 0x00FF0000, 0x0000FF00, 0x000000FF}, 255))
	assert.Greater(t, buf.Len(), halted, "render must write an encoded stream")

	assert.Error(t, s.Render([]uint32{1}, 255), "wrong frame length")

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Render(make([]uint32, 4), 1), ErrClosed)
	assert.NoError(t, s.Close(), "close is idempotent")
}

func TestSPIRejectsEmptyStrip(t *testing.T) {
	_, err := newSPI(spitest.NewRecordRaw(&bytes.Buffer{}), 0, 800*physic.KiloHertz)
	assert.Error(t, err)
}
