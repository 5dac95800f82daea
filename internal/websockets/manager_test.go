package websockets

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSocket records writes and trips overlapped if two writes ever run
// at the same time.
type fakeSocket struct {
	mu         sync.Mutex
	writes     [][]byte
	inFlight   int32
	overlapped int32
	closed     bool
}

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	if atomic.AddInt32(&s.inFlight, 1) > 1 {
		atomic.StoreInt32(&s.overlapped, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&s.inFlight, -1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, append([]byte(nil), data...))
	return nil
}

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSocket) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}

func TestSend_SerializesWritesPerConnection(t *testing.T) {
	m := New()
	sock := &fakeSocket{}
	m.register("user-1", sock)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.SendAnalysisComplete("user-1", "job", map[string]any{"status": "completed"})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), atomic.LoadInt32(&sock.overlapped),
		"concurrent writes reached the connection")
	assert.Equal(t, 8, sock.writeCount())
}

func TestSend_ReachesEveryOpenTab(t *testing.T) {
	m := New()
	first := &fakeSocket{}
	second := &fakeSocket{}
	m.register("user-1", first)
	m.register("user-1", second)
	other := &fakeSocket{}
	m.register("user-2", other)

	m.SendAnalysisError("user-1", "job-1", "model returned error: boom")

	assert.Equal(t, 1, first.writeCount())
	assert.Equal(t, 1, second.writeCount())
	assert.Equal(t, 0, other.writeCount())

	var ev event
	require.NoError(t, json.Unmarshal(first.writes[0], &ev))
	assert.Equal(t, "analysis_error", ev.Type)
	assert.Equal(t, "job-1", ev.JobID)
	assert.Equal(t, "model returned error: boom", ev.Error)
}

func TestUnregister_ClosesAndRemovesConnection(t *testing.T) {
	m := New()
	sock := &fakeSocket{}
	cl := m.register("user-1", sock)

	m.unregister("user-1", cl)

	assert.True(t, sock.closed)
	m.SendAnalysisProgress("user-1", "job", nil)
	assert.Equal(t, 0, sock.writeCount())
}
