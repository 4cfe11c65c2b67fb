package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/pkg/randutil"
)

const testSeed = 7

var testSeat = domain.Seat{
	ID:     domain.SeatA,
	Label:  "Player 1",
	Piece:  "P1",
	Config: domain.SeatConfig{Kind: domain.KindAI, Model: "openai/gpt-4.1"},
}

// reply is one scripted endpoint response.
type reply struct {
	status int
	body   string
}

func chatBody(content string) string {
	data, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(data)
}

type fakeEndpoint struct {
	server   *httptest.Server
	requests atomic.Int32

	mu       sync.Mutex
	replies  []reply
	lastBody chatRequest
	lastHdr  http.Header
}

func newFakeEndpoint(t *testing.T, replies ...reply) *fakeEndpoint {
	t.Helper()
	f := &fakeEndpoint{replies: replies}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(f.requests.Add(1))

		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		_ = json.Unmarshal(data, &f.lastBody)
		f.lastHdr = r.Header.Clone()
		rep := f.replies[len(f.replies)-1]
		if n <= len(f.replies) {
			rep = f.replies[n-1]
		}
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		_, _ = io.WriteString(w, rep.body)
	}))
	t.Cleanup(f.server.Close)
	return f
}

type recorder struct {
	mu      sync.Mutex
	notices []string
	sleeps  []time.Duration
}

func (r *recorder) notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
}

func (r *recorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
	return nil
}

func newTestClient(t *testing.T, baseURL string, rec *recorder) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.RequestTimeout = 5 * time.Second
	c := NewClient(cfg, nil, quartz.NewMock(t), randutil.New(testSeed), log.New(io.Discard))
	if rec != nil {
		c.sleep = rec.sleep
	}
	return c
}

// expectedFallback replays the seeded source to predict a random pick.
func expectedFallback(validMoves []int) int {
	return validMoves[randutil.New(testSeed).IntN(len(validMoves))]
}

func TestRequestMoveImmediateSuccess(t *testing.T) {
	endpoint := newFakeEndpoint(t, reply{status: http.StatusOK, body: chatBody(`{"column": 3}`)})
	rec := &recorder{}
	client := newTestClient(t, endpoint.server.URL, rec)

	column := client.RequestMove(context.Background(), domain.NewBoard(), testSeat, "sk-test", rec.notify)

	assert.Equal(t, 3, column)
	assert.EqualValues(t, 1, endpoint.requests.Load())
	assert.Empty(t, rec.notices)
	assert.Empty(t, rec.sleeps)
}

func TestRequestMoveSendsChatCompletionRequest(t *testing.T) {
	endpoint := newFakeEndpoint(t, reply{status: http.StatusOK, body: chatBody(`{"column": 0}`)})
	client := newTestClient(t, endpoint.server.URL, nil)

	client.RequestMove(context.Background(), domain.NewBoard(), testSeat, "sk-test", nil)

	endpoint.mu.Lock()
	defer endpoint.mu.Unlock()
	assert.Equal(t, "Bearer sk-test", endpoint.lastHdr.Get("Authorization"))
	assert.Equal(t, "application/json", endpoint.lastHdr.Get("Content-Type"))
	assert.Equal(t, "AI Board Game Arena", endpoint.lastHdr.Get("X-Title"))
	assert.NotEmpty(t, endpoint.lastHdr.Get("HTTP-Referer"))

	body := endpoint.lastBody
	assert.Equal(t, "openai/gpt-4.1", body.Model)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "user", body.Messages[1].Role)
	assert.Contains(t, body.Messages[0].Content, "[0, 1, 2, 3, 4, 5, 6]")
	require.NotNil(t, body.ResponseFormat)
	assert.Equal(t, "json_object", body.ResponseFormat.Type)
	assert.Equal(t, 50, body.MaxTokens)
}

func TestRequestMoveMalformedContentFallsBackWithoutRetry(t *testing.T) {
	endpoint := newFakeEndpoint(t, reply{status: http.StatusOK, body: chatBody("I think column three")})
	rec := &recorder{}
	client := newTestClient(t, endpoint.server.URL, rec)

	board := domain.NewBoard()
	column := client.RequestMove(context.Background(), board, testSeat, "sk-test", rec.notify)

	assert.Equal(t, expectedFallback(domain.ValidMoves(board)), column)
	assert.EqualValues(t, 1, endpoint.requests.Load())
	assert.Empty(t, rec.sleeps)
	assert.Equal(t, []string{"Player 1 returned an invalid move. Picking a random one."}, rec.notices)
}

func TestRequestMoveIllegalColumnFallsBackWithoutRetry(t *testing.T) {
	endpoint := newFakeEndpoint(t, reply{status: http.StatusOK, body: chatBody(`{"column": 99}`)})
	rec := &recorder{}
	client := newTestClient(t, endpoint.server.URL, rec)

	board := domain.NewBoard()
	board, _, _ = domain.ApplyMove(board, 2, domain.SeatB)
	column := client.RequestMove(context.Background(), board, testSeat, "sk-test", rec.notify)

	assert.Contains(t, domain.ValidMoves(board), column)
	assert.Equal(t, expectedFallback(domain.ValidMoves(board)), column)
	assert.EqualValues(t, 1, endpoint.requests.Load())
	assert.Empty(t, rec.sleeps)
	require.Len(t, rec.notices, 1)
	assert.Contains(t, rec.notices[0], "invalid move")
}

func TestRequestMoveFullColumnIsIllegal(t *testing.T) {
	board := domain.NewBoard()
	for i := 0; i < domain.Rows; i++ {
		board, _, _ = domain.ApplyMove(board, 4, domain.SeatID(1+i%2))
	}
	endpoint := newFakeEndpoint(t, reply{status: http.StatusOK, body: chatBody(`{"column": 4}`)})
	rec := &recorder{}
	client := newTestClient(t, endpoint.server.URL, rec)

	column := client.RequestMove(context.Background(), board, testSeat, "sk-test", rec.notify)

	assert.NotEqual(t, 4, column)
	assert.Contains(t, domain.ValidMoves(board), column)
	assert.Len(t, rec.notices, 1)
}

func TestRequestMoveRateLimitedThreeTimes(t *testing.T) {
	endpoint := newFakeEndpoint(t, reply{
		status: http.StatusTooManyRequests,
		body:   `{"error": {"message": "Rate limit exceeded: free-models-per-min"}}`,
	})
	rec := &recorder{}
	client := newTestClient(t, endpoint.server.URL, rec)

	board := domain.NewBoard()
	column := client.RequestMove(context.Background(), board, testSeat, "sk-test", rec.notify)

	assert.Equal(t, expectedFallback(domain.ValidMoves(board)), column)
	assert.EqualValues(t, 3, endpoint.requests.Load())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.sleeps)
	assert.Equal(t, []string{
		"Rate limit hit. Retrying in 2s...",
		"Rate limit hit. Retrying in 4s...",
		"API for Player 1 failed after all retries. Making a random move.",
	}, rec.notices)
}

func TestRequestMoveNetworkFailures(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	rec := &recorder{}
	client := newTestClient(t, url, rec)

	board := domain.NewBoard()
	column := client.RequestMove(context.Background(), board, testSeat, "sk-test", rec.notify)

	assert.Contains(t, domain.ValidMoves(board), column)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.sleeps)
	assert.Equal(t, []string{"API for Player 1 failed after all retries. Making a random move."}, rec.notices)
}

func TestRequestMoveServerErrorThenSuccess(t *testing.T) {
	endpoint := newFakeEndpoint(t,
		reply{status: http.StatusBadGateway, body: `{"error": {"message": "upstream"}}`},
		reply{status: http.StatusOK, body: chatBody(`{"column": 5}`)},
	)
	rec := &recorder{}
	client := newTestClient(t, endpoint.server.URL, rec)

	column := client.RequestMove(context.Background(), domain.NewBoard(), testSeat, "sk-test", rec.notify)

	assert.Equal(t, 5, column)
	assert.EqualValues(t, 2, endpoint.requests.Load())
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.sleeps)
	assert.Empty(t, rec.notices)
}

func TestRequestMoveErrorEnvelopeIsRetried(t *testing.T) {
	endpoint := newFakeEndpoint(t,
		reply{status: http.StatusOK, body: `{"error": {"message": "provider returned error"}}`},
		reply{status: http.StatusOK, body: `not json at all`},
		reply{status: http.StatusOK, body: chatBody("```json\n{\"column\": 1}\n```")},
	)
	rec := &recorder{}
	client := newTestClient(t, endpoint.server.URL, rec)

	column := client.RequestMove(context.Background(), domain.NewBoard(), testSeat, "sk-test", rec.notify)

	assert.Equal(t, 1, column)
	assert.EqualValues(t, 3, endpoint.requests.Load())
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.sleeps)
}

func TestRequestMoveEmptyChoicesIsMalformed(t *testing.T) {
	endpoint := newFakeEndpoint(t, reply{status: http.StatusOK, body: `{"choices": []}`})
	rec := &recorder{}
	client := newTestClient(t, endpoint.server.URL, rec)

	column := client.RequestMove(context.Background(), domain.NewBoard(), testSeat, "sk-test", rec.notify)

	assert.Contains(t, domain.ValidMoves(domain.NewBoard()), column)
	assert.EqualValues(t, 1, endpoint.requests.Load())
	assert.Len(t, rec.notices, 1)
}

func TestRequestMoveCancelledDuringBackoff(t *testing.T) {
	endpoint := newFakeEndpoint(t, reply{status: http.StatusTooManyRequests, body: `{}`})
	cfg := DefaultConfig()
	cfg.BaseURL = endpoint.server.URL
	mClock := quartz.NewMock(t)
	client := NewClient(cfg, nil, mClock, randutil.New(testSeed), log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	notify := func(msg string) {
		rec.notify(msg)
		// the mock clock never fires, so only cancellation ends the wait
		cancel()
	}

	done := make(chan int, 1)
	go func() {
		done <- client.RequestMove(ctx, domain.NewBoard(), testSeat, "sk-test", notify)
	}()

	select {
	case column := <-done:
		assert.Contains(t, domain.ValidMoves(domain.NewBoard()), column)
	case <-time.After(5 * time.Second):
		t.Fatal("RequestMove did not return after cancellation")
	}
	assert.EqualValues(t, 1, endpoint.requests.Load())
	assert.Equal(t, []string{"Rate limit hit. Retrying in 2s..."}, rec.notices)
}

func TestRequestMoveAlwaysLegalAcrossSeeds(t *testing.T) {
	endpoint := newFakeEndpoint(t, reply{status: http.StatusOK, body: chatBody(`{"column": 6}`)})
	board := domain.NewBoard()
	for _, col := range []int{6, 6, 6, 6, 6, 6, 0, 0, 0, 0, 0, 0} {
		board, _, _ = domain.ApplyMove(board, col, domain.SeatA)
	}
	valid := domain.ValidMoves(board)

	for seed := int64(0); seed < 20; seed++ {
		cfg := DefaultConfig()
		cfg.BaseURL = endpoint.server.URL
		client := NewClient(cfg, nil, quartz.NewMock(t), randutil.New(seed), log.New(io.Discard))
		assert.Contains(t, valid, client.RequestMove(context.Background(), board, testSeat, "k", nil))
	}
}

func TestRequestMoveFullBoard(t *testing.T) {
	var board domain.Board
	for r := range board {
		for c := range board[r] {
			board[r][c] = domain.SeatA
		}
	}
	client := newTestClient(t, "http://127.0.0.1:1", &recorder{})

	assert.Equal(t, -1, client.RequestMove(context.Background(), board, testSeat, "k", nil))
}
